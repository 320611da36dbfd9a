package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditDomain "github.com/rebil-rentals/service-booking/internal/domain/audit"
	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
)

// TransitionModel is the GORM model for the booking_transitions table.
type TransitionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"not null;size:30"`
	ToStatus   string    `gorm:"not null;size:30"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"not null;size:10"`
	Reason     string    `gorm:"type:text"`
	FeeAmount  int64     `gorm:"not null;default:0"`
	Refund     int64     `gorm:"not null;default:0"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (TransitionModel) TableName() string {
	return "booking_transitions"
}

// GormAuditRepository is the GORM-based implementation of the transition
// log repository.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append persists a new transition record.
func (r *GormAuditRepository) Append(ctx context.Context, record *auditDomain.TransitionRecord) error {
	model := &TransitionModel{
		ID:         record.ID(),
		BookingID:  record.BookingID(),
		FromStatus: string(record.FromStatus()),
		ToStatus:   string(record.ToStatus()),
		ActorID:    record.ActorID(),
		ActorRole:  record.ActorRole(),
		Reason:     record.Reason(),
		FeeAmount:  record.FeeAmount(),
		Refund:     record.Refund(),
		OccurredAt: record.OccurredAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append transition record: %w", err)
	}
	return nil
}

// FindByBookingID returns a booking's transition trail, oldest first.
func (r *GormAuditRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*auditDomain.TransitionRecord, error) {
	var models []TransitionModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find transition records: %w", err)
	}

	records := make([]*auditDomain.TransitionRecord, len(models))
	for i, m := range models {
		records[i] = auditDomain.ReconstructTransitionRecord(
			m.ID, m.BookingID,
			bookingDomain.Status(m.FromStatus), bookingDomain.Status(m.ToStatus),
			m.ActorID, m.ActorRole, m.Reason,
			m.FeeAmount, m.Refund,
			m.OccurredAt,
		)
	}
	return records, nil
}
