package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindOverlapping returns bookings for the vehicle in one of the given
	// statuses whose [start,end) range overlaps the candidate range.
	// excludeID, when non-nil, removes one booking from consideration
	// (used when re-checking an existing booking's own window).
	FindOverlapping(ctx context.Context, carID uuid.UUID, start, end time.Time, statuses []Status, excludeID *uuid.UUID) ([]*Booking, error)

	// FindOccupyingByCar returns the not-yet-started occupying bookings
	// for a vehicle (used when a vehicle is pulled from the fleet).
	FindOccupyingByCar(ctx context.Context, carID uuid.UUID, statuses []Status) ([]*Booking, error)

	// FindByHostID retrieves bookings for a host with pagination.
	FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByRenterID retrieves bookings for a renter with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Create persists a new booking, re-validating inside the same
	// transaction that no occupying booking overlaps its window. Returns
	// a conflict error if the window was taken between check and commit.
	Create(ctx context.Context, booking *Booking, occupying []Status) error

	// Update persists changes to an existing booking with optimistic
	// locking, returning a conflict error on a lost race.
	Update(ctx context.Context, booking *Booking) error
}
