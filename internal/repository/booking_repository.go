package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HostID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	RenterID        *uuid.UUID      `gorm:"type:uuid;index"`
	CarID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	StartDate       time.Time       `gorm:"not null;index"`
	EndDate         time.Time       `gorm:"not null"`
	Status          string          `gorm:"not null;size:30;index"`
	BookingType     string          `gorm:"not null;size:10;default:'ONLINE'"`
	DailyRate       int64           `gorm:"not null"`
	TotalDays       int             `gorm:"not null"`
	Subtotal        int64           `gorm:"not null"`
	InsuranceFee    int64           `gorm:"not null;default:0"`
	ServiceFee      int64           `gorm:"not null;default:0"`
	DeliveryFee     int64           `gorm:"not null;default:0"`
	TotalAmount     int64           `gorm:"not null"`
	SecurityDeposit int64           `gorm:"not null;default:0"`
	ManualDetails   json.RawMessage `gorm:"type:jsonb"`
	ApprovedAt      *time.Time      `gorm:""`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid"`
	CancelledAt     *time.Time      `gorm:""`
	CancelledBy     *uuid.UUID      `gorm:"type:uuid"`
	CancelledByType string          `gorm:"size:10"`
	Cancellation    json.RawMessage `gorm:"type:jsonb"`
	DisputedAt      *time.Time      `gorm:""`
	DisputedBy      *uuid.UUID      `gorm:"type:uuid"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindOverlapping returns bookings for the vehicle whose [start,end)
// range overlaps the candidate range. Half-open semantics: a booking
// ending exactly when the candidate starts does not conflict.
func (r *GormBookingRepository) FindOverlapping(
	ctx context.Context,
	carID uuid.UUID,
	start, end time.Time,
	statuses []bookingDomain.Status,
	excludeID *uuid.UUID,
) ([]*bookingDomain.Booking, error) {
	return r.findOverlapping(r.db.WithContext(ctx), carID, start, end, statuses, excludeID, false)
}

func (r *GormBookingRepository) findOverlapping(
	tx *gorm.DB,
	carID uuid.UUID,
	start, end time.Time,
	statuses []bookingDomain.Status,
	excludeID *uuid.UUID,
	forUpdate bool,
) ([]*bookingDomain.Booking, error) {
	query := tx.
		Where("car_id = ?", carID).
		Where("status IN ?", statusStrings(statuses)).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var models []BookingModel
	if err := query.Order("start_date ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindOccupyingByCar returns the occupying bookings for a vehicle.
func (r *GormBookingRepository) FindOccupyingByCar(ctx context.Context, carID uuid.UUID, statuses []bookingDomain.Status) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Where("status IN ?", statusStrings(statuses)).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by car: %w", err)
	}
	return toDomainBookings(models)
}

// FindByHostID retrieves bookings for a host with pagination.
func (r *GormBookingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaginated(ctx, "host_id = ?", hostID, page, limit)
}

// FindByRenterID retrieves bookings for a renter with pagination.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaginated(ctx, "renter_id = ?", renterID, page, limit)
}

func (r *GormBookingRepository) findPaginated(ctx context.Context, cond string, arg interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Create persists a new booking after re-validating the reservation
// window inside the same transaction. The vehicle's occupying rows are
// locked first, so two concurrent requests for overlapping windows
// serialize and the loser gets a conflict error.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking, occupying []bookingDomain.Status) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflicts, err := r.findOverlapping(tx, bk.CarID(), bk.StartDate(), bk.EndDate(), occupying, nil, true)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.NewConflictError("the vehicle was booked for these dates by a concurrent request")
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before committing).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":            model.Status,
			"approved_at":       model.ApprovedAt,
			"approved_by":       model.ApprovedBy,
			"cancelled_at":      model.CancelledAt,
			"cancelled_by":      model.CancelledBy,
			"cancelled_by_type": model.CancelledByType,
			"cancellation":      model.Cancellation,
			"disputed_at":       model.DisputedAt,
			"disputed_by":       model.DisputedBy,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion helpers ---

func statusStrings(statuses []bookingDomain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	var manualJSON json.RawMessage
	if bk.ManualDetails() != nil {
		data, err := json.Marshal(bk.ManualDetails())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manual details: %w", err)
		}
		manualJSON = data
	}

	var cancellationJSON json.RawMessage
	if bk.Cancellation() != nil {
		data, err := json.Marshal(bk.Cancellation())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cancellation details: %w", err)
		}
		cancellationJSON = data
	}

	var renterID *uuid.UUID
	if bk.RenterID() != uuid.Nil {
		id := bk.RenterID()
		renterID = &id
	}

	price := bk.Price()
	return &BookingModel{
		ID:              bk.ID(),
		HostID:          bk.HostID(),
		RenterID:        renterID,
		CarID:           bk.CarID(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		Status:          string(bk.Status()),
		BookingType:     string(bk.BookingType()),
		DailyRate:       price.DailyRate,
		TotalDays:       price.TotalDays,
		Subtotal:        price.Subtotal,
		InsuranceFee:    price.InsuranceFee,
		ServiceFee:      price.ServiceFee,
		DeliveryFee:     price.DeliveryFee,
		TotalAmount:     price.TotalAmount,
		SecurityDeposit: price.SecurityDeposit,
		ManualDetails:   manualJSON,
		ApprovedAt:      bk.ApprovedAt(),
		ApprovedBy:      bk.ApprovedBy(),
		CancelledAt:     bk.CancelledAt(),
		CancelledBy:     bk.CancelledBy(),
		CancelledByType: string(bk.CancelledByType()),
		Cancellation:    cancellationJSON,
		DisputedAt:      bk.DisputedAt(),
		DisputedBy:      bk.DisputedBy(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var manualDetails *bookingDomain.ManualBookingDetails
	if len(m.ManualDetails) > 0 {
		var md bookingDomain.ManualBookingDetails
		if err := json.Unmarshal(m.ManualDetails, &md); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manual details: %w", err)
		}
		manualDetails = &md
	}

	var cancellation *bookingDomain.CancellationDetails
	if len(m.Cancellation) > 0 {
		var cd bookingDomain.CancellationDetails
		if err := json.Unmarshal(m.Cancellation, &cd); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cancellation details: %w", err)
		}
		cancellation = &cd
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	renterID := uuid.Nil
	if m.RenterID != nil {
		renterID = *m.RenterID
	}

	return bookingDomain.ReconstructBooking(
		m.ID, m.HostID, renterID, m.CarID,
		m.StartDate, m.EndDate,
		status,
		bookingDomain.BookingType(m.BookingType),
		bookingDomain.PriceBreakdown{
			DailyRate:       m.DailyRate,
			TotalDays:       m.TotalDays,
			Subtotal:        m.Subtotal,
			InsuranceFee:    m.InsuranceFee,
			ServiceFee:      m.ServiceFee,
			DeliveryFee:     m.DeliveryFee,
			TotalAmount:     m.TotalAmount,
			SecurityDeposit: m.SecurityDeposit,
		},
		manualDetails,
		m.ApprovedAt, m.ApprovedBy,
		m.CancelledAt, m.CancelledBy,
		bookingDomain.ActorRole(m.CancelledByType),
		cancellation,
		m.DisputedAt, m.DisputedBy,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
