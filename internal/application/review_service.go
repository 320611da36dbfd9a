package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	reviewDomain "github.com/rebil-rentals/service-booking/internal/domain/review"
	"github.com/rebil-rentals/service-booking/internal/events"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
	"github.com/rebil-rentals/service-booking/internal/pkg/kafka"
)

// SubmitReviewRequest holds the data for a new review.
type SubmitReviewRequest struct {
	BookingID  uuid.UUID `json:"booking_id" binding:"required"`
	RevieweeID uuid.UUID `json:"reviewee_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required"`
	Comment    string    `json:"comment"`
	IsPublic   bool      `json:"is_public"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewService handles review eligibility and submission.
type ReviewService struct {
	reviews  reviewDomain.Repository
	bookings bookingDomain.Repository
	clock    bookingDomain.Clock
	producer kafka.EventPublisher
	logger   *zap.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	reviews reviewDomain.Repository,
	bookings bookingDomain.Repository,
	clock bookingDomain.Clock,
	producer kafka.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		clock:    clock,
		producer: producer,
		logger:   logger,
	}
}

// CheckEligibility reports whether the reviewer may review their
// counterparty on this booking. The reason is always populated on a
// negative verdict.
func (s *ReviewService) CheckEligibility(ctx context.Context, bookingID, reviewerID uuid.UUID) (*reviewDomain.Eligibility, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	revieweeID, ok := reviewDomain.Counterparty(bk, reviewerID)
	if !ok {
		result := reviewDomain.Eligibility{
			CanReview: false,
			Reason:    "reviewer is not a party to this booking",
		}
		return &result, nil
	}

	exists, err := s.reviews.ExistsForTriple(ctx, bookingID, reviewerID, revieweeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	result := reviewDomain.CheckEligibility(bk, reviewerID, revieweeID, exists)
	return &result, nil
}

// SubmitReview creates a review once eligibility passes. A duplicate
// triple is rejected with a typed error, whether caught by the pre-check
// or by the store's unique constraint.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewerID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForTriple(ctx, req.BookingID, reviewerID, req.RevieweeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	verdict := reviewDomain.CheckEligibility(bk, reviewerID, req.RevieweeID, exists)
	if !verdict.CanReview {
		if exists {
			return nil, domain.NewAlreadyReviewedError(verdict.Reason)
		}
		return nil, domain.NewInvalidStateMessage(verdict.Reason)
	}

	rv, err := reviewDomain.NewReview(
		req.BookingID, reviewerID, req.RevieweeID,
		req.Rating, req.Comment, req.IsPublic,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, err
	}

	s.publishReviewSubmitted(ctx, rv)

	result := toReviewDTO(rv)
	return &result, nil
}

// GetBookingReviews returns the reviews attached to a booking, visible to
// its parties.
func (s *ReviewService) GetBookingReviews(ctx context.Context, bookingID, actorID uuid.UUID) ([]ReviewDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsParty(actorID) {
		return nil, domain.NewForbiddenError("you are not a party to this booking")
	}

	reviews, err := s.reviews.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return toReviewDTOs(reviews), nil
}

// GetUserReviews returns the public reviews about a user, newest first.
func (s *ReviewService) GetUserReviews(ctx context.Context, revieweeID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.reviews.FindByRevieweeID(ctx, revieweeID, true, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load user reviews: %w", err)
	}
	result := domain.NewPaginatedResult(toReviewDTOs(reviews), total, page, limit)
	return &result, nil
}

func (s *ReviewService) publishReviewSubmitted(ctx context.Context, rv *reviewDomain.Review) {
	evt := events.ReviewSubmittedEvent{
		ReviewID:   rv.ID(),
		BookingID:  rv.BookingID(),
		ReviewerID: rv.ReviewerID(),
		RevieweeID: rv.RevieweeID(),
		Rating:     rv.Rating(),
		OccurredAt: s.clock.Now(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", events.ReviewSubmitted, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish review event", zap.Error(err))
	}
}

func toReviewDTO(rv *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:         rv.ID(),
		BookingID:  rv.BookingID(),
		ReviewerID: rv.ReviewerID(),
		RevieweeID: rv.RevieweeID(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		IsPublic:   rv.IsPublic(),
		CreatedAt:  rv.CreatedAt(),
	}
}

func toReviewDTOs(reviews []*reviewDomain.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	return dtos
}
