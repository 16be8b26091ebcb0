package booking

import (
	"time"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseRequestedDate parses a YYYY-MM-DD move-in date into a UTC midnight time.
func ParseRequestedDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewInvalidInputError(domain.CodeBadDateFormat,
			"requested_date must be a valid calendar date in YYYY-MM-DD format")
	}
	return d, nil
}

// FormatDate renders a calendar date in wire format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
