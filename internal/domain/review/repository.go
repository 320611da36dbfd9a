package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews.
type Repository interface {
	// ExistsForTriple reports whether a review already exists for the
	// exact (booking, reviewer, reviewee) triple.
	ExistsForTriple(ctx context.Context, bookingID, reviewerID, revieweeID uuid.UUID) (bool, error)

	// FindByBookingID returns the reviews attached to a booking.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Review, error)

	// FindByRevieweeID returns reviews about a user, newest first.
	// publicOnly restricts the result to publicly displayed reviews.
	FindByRevieweeID(ctx context.Context, revieweeID uuid.UUID, publicOnly bool, page, limit int) ([]*Review, int64, error)

	// Save persists a new review. The unique triple constraint is
	// enforced by the store; a duplicate surfaces as a conflict.
	Save(ctx context.Context, review *Review) error
}
