package lease

import "fmt"

// LeaseStatus represents the occupancy state of a lease.
type LeaseStatus string

const (
	StatusActive     LeaseStatus = "active"
	StatusTerminated LeaseStatus = "terminated"
)

var validTransitions = map[LeaseStatus][]LeaseStatus{
	StatusActive:     {StatusTerminated},
	StatusTerminated: {},
}

// IsValid returns true if the status is a recognized lease status.
func (s LeaseStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s LeaseStatus) CanTransitionTo(target LeaseStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s LeaseStatus) String() string {
	return string(s)
}

// ParseLeaseStatus converts a string to a LeaseStatus, returning an error if invalid.
func ParseLeaseStatus(s string) (LeaseStatus, error) {
	status := LeaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid lease status: %s", s)
	}
	return status, nil
}
