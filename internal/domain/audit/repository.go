package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for the transition log.
type Repository interface {
	// Append persists a new transition record.
	Append(ctx context.Context, record *TransitionRecord) error

	// FindByBookingID returns a booking's transition trail, oldest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*TransitionRecord, error)
}
