package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reviewDomain "github.com/rebil-rentals/service-booking/internal/domain/review"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

// ReviewModel is the GORM model for the reviews table. The unique index
// over (booking_id, reviewer_id, reviewee_id) is the hard guarantee
// behind the one-review-per-direction rule.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_triple"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_triple"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_triple;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	IsPublic   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of the review
// repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ExistsForTriple reports whether a review already exists for the exact
// (booking, reviewer, reviewee) triple.
func (r *GormReviewRepository) ExistsForTriple(ctx context.Context, bookingID, reviewerID, revieweeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("booking_id = ? AND reviewer_id = ? AND reviewee_id = ?", bookingID, reviewerID, revieweeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

// FindByBookingID returns the reviews attached to a booking.
func (r *GormReviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*reviewDomain.Review, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews by booking: %w", err)
	}
	return toDomainReviews(models), nil
}

// FindByRevieweeID returns reviews about a user, newest first.
func (r *GormReviewRepository) FindByRevieweeID(ctx context.Context, revieweeID uuid.UUID, publicOnly bool, page, limit int) ([]*reviewDomain.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("reviewee_id = ?", revieweeID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews by reviewee: %w", err)
	}
	return toDomainReviews(models), total, nil
}

// Save persists a new review. A duplicate triple racing past the
// service-level pre-check lands on the unique index and surfaces as a
// conflict error.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewAlreadyReviewedError("you have already reviewed this booking")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func toReviewModel(rv *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
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

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.ReconstructReview(
		m.ID, m.BookingID, m.ReviewerID, m.RevieweeID,
		m.Rating, m.Comment, m.IsPublic, m.CreatedAt,
	)
}

func toDomainReviews(models []ReviewModel) []*reviewDomain.Review {
	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews
}
