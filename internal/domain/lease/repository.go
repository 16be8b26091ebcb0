package lease

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseRepository defines the persistence contract for leases.
type LeaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindByIDForUpdate retrieves a lease and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Lease, error)

	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Lease, error)

	// FindByTenant returns every lease whose booking was made by userID, newest start first.
	FindByTenant(ctx context.Context, userID uuid.UUID) ([]*Lease, error)

	// List returns leases with an optional status filter and pagination.
	List(ctx context.Context, status LeaseStatus, page, limit int) ([]*Lease, int64, error)

	// ActiveRents returns the monthly rent of every active lease.
	ActiveRents(ctx context.Context) ([]decimal.Decimal, error)

	// CountActiveByFlat counts active leases on a flat.
	CountActiveByFlat(ctx context.Context, flatID uuid.UUID) (int64, error)

	Save(ctx context.Context, lease *Lease) error

	// UpdateStatus persists a status change only if the stored row still has expectedStatus
	// and the lease's previous version.
	UpdateStatus(ctx context.Context, lease *Lease, expectedStatus LeaseStatus) error
}
