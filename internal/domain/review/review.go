package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

const (
	// MinRating and MaxRating bound the star rating.
	MinRating = 1
	MaxRating = 5
)

// Review is a one-directional rating left by one party of a completed
// booking about the other. Reviews are immutable after creation; at most
// one exists per (booking, reviewer, reviewee) triple.
type Review struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	reviewerID uuid.UUID
	revieweeID uuid.UUID
	rating     int
	comment    string
	isPublic   bool
	createdAt  time.Time
}

// NewReview creates a Review. Eligibility must already have been verified
// by the checker; this only validates the review's own fields.
func NewReview(
	bookingID, reviewerID, revieweeID uuid.UUID,
	rating int,
	comment string,
	isPublic bool,
	now time.Time,
) (*Review, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if reviewerID == uuid.Nil || revieweeID == uuid.Nil {
		return nil, domain.NewValidationError("reviewer and reviewee IDs are required")
	}
	if reviewerID == revieweeID {
		return nil, domain.NewValidationError("users cannot review themselves")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}

	return &Review{
		id:         uuid.New(),
		bookingID:  bookingID,
		reviewerID: reviewerID,
		revieweeID: revieweeID,
		rating:     rating,
		comment:    comment,
		isPublic:   isPublic,
		createdAt:  now,
	}, nil
}

// ReconstructReview rebuilds a Review from persistence data.
func ReconstructReview(
	id, bookingID, reviewerID, revieweeID uuid.UUID,
	rating int,
	comment string,
	isPublic bool,
	createdAt time.Time,
) *Review {
	return &Review{
		id:         id,
		bookingID:  bookingID,
		reviewerID: reviewerID,
		revieweeID: revieweeID,
		rating:     rating,
		comment:    comment,
		isPublic:   isPublic,
		createdAt:  createdAt,
	}
}

func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) BookingID() uuid.UUID  { return r.bookingID }
func (r *Review) ReviewerID() uuid.UUID { return r.reviewerID }
func (r *Review) RevieweeID() uuid.UUID { return r.revieweeID }
func (r *Review) Rating() int           { return r.rating }
func (r *Review) Comment() string       { return r.comment }
func (r *Review) IsPublic() bool        { return r.isPublic }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }
