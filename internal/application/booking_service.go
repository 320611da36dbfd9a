package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditDomain "github.com/rebil-rentals/service-booking/internal/domain/audit"
	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	"github.com/rebil-rentals/service-booking/internal/events"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
	"github.com/rebil-rentals/service-booking/internal/pkg/kafka"
)

// CreateBookingRequest holds the data needed to create a renter booking.
type CreateBookingRequest struct {
	HostID          uuid.UUID `json:"host_id" binding:"required"`
	CarID           uuid.UUID `json:"car_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	DailyRate       int64     `json:"daily_rate" binding:"required"`
	WithInsurance   bool      `json:"with_insurance"`
	WithDelivery    bool      `json:"with_delivery"`
	SecurityDeposit int64     `json:"security_deposit"`
	// AutoApprove reflects the host's auto-approval preference, resolved
	// by the caller from the host's listing settings.
	AutoApprove bool `json:"auto_approve"`
}

// CreateManualBookingRequest holds the data for a host-entered booking.
type CreateManualBookingRequest struct {
	CarID           uuid.UUID `json:"car_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	DailyRate       int64     `json:"daily_rate" binding:"required"`
	SecurityDeposit int64     `json:"security_deposit"`
	RenterName      string    `json:"renter_name" binding:"required"`
	RenterPhone     string    `json:"renter_phone"`
	Note            string    `json:"note"`
}

// TransitionRequest describes an attempted status change.
type TransitionRequest struct {
	TargetStatus bookingDomain.Status
	Reason       string
	ReasonCode   bookingDomain.EmergencyReason
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID                           `json:"id"`
	HostID          uuid.UUID                           `json:"host_id"`
	RenterID        uuid.UUID                           `json:"renter_id,omitempty"`
	CarID           uuid.UUID                           `json:"car_id"`
	StartDate       time.Time                           `json:"start_date"`
	EndDate         time.Time                           `json:"end_date"`
	Status          string                              `json:"status"`
	BookingType     string                              `json:"booking_type"`
	Price           bookingDomain.PriceBreakdown        `json:"price"`
	ManualDetails   *bookingDomain.ManualBookingDetails `json:"manual_details,omitempty"`
	ApprovedAt      *time.Time                          `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID                          `json:"approved_by,omitempty"`
	CancelledAt     *time.Time                          `json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID                          `json:"cancelled_by,omitempty"`
	CancelledByType string                              `json:"cancelled_by_type,omitempty"`
	Cancellation    *bookingDomain.CancellationDetails  `json:"cancellation,omitempty"`
	DisputedAt      *time.Time                          `json:"disputed_at,omitempty"`
	Version         int64                               `json:"version"`
	CreatedAt       time.Time                           `json:"created_at"`
	UpdatedAt       time.Time                           `json:"updated_at"`
}

// CancellationOutcome reports a committed cancellation with its pricing.
type CancellationOutcome struct {
	Booking      BookingDTO `json:"booking"`
	FeeAmount    int64      `json:"fee_amount"`
	RefundAmount int64      `json:"refund_amount"`
}

// ConflictDTO describes one existing booking blocking a candidate window.
type ConflictDTO struct {
	BookingID uuid.UUID `json:"booking_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

// BookingService is the single entry point for the booking lifecycle:
// creation, status transitions, cancellation policy and conflict checks.
type BookingService struct {
	repo      bookingDomain.Repository
	auditRepo auditDomain.Repository
	policy    *bookingDomain.PolicyEngine
	quote     bookingDomain.QuoteStrategy
	clock     bookingDomain.Clock
	config    bookingDomain.PolicyConfig
	producer  kafka.EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	auditRepo auditDomain.Repository,
	policyConfig bookingDomain.PolicyConfig,
	quote bookingDomain.QuoteStrategy,
	clock bookingDomain.Clock,
	producer kafka.EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		auditRepo: auditRepo,
		policy:    bookingDomain.NewPolicyEngine(policyConfig, clock),
		quote:     quote,
		clock:     clock,
		config:    policyConfig,
		producer:  producer,
		logger:    logger,
	}
}

// CreateBooking creates a renter-initiated booking. Conflicts are checked
// before pricing and re-validated inside the insert transaction; losing
// the race surfaces as a conflict error, never a double booking.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	occupying := bookingDomain.OccupyingStatuses(s.config.PendingHolds)
	conflicts, err := s.repo.FindOverlapping(ctx, req.CarID, req.StartDate, req.EndDate, occupying, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, domain.NewConflictError("the vehicle is already booked for part of the requested dates")
	}

	totalDays := rentalDays(req.StartDate, req.EndDate)
	price, err := s.quote.Quote(bookingDomain.QuoteParams{
		DailyRate:       req.DailyRate,
		TotalDays:       totalDays,
		WithInsurance:   req.WithInsurance,
		WithDelivery:    req.WithDelivery,
		SecurityDeposit: req.SecurityDeposit,
	})
	if err != nil {
		return nil, err
	}

	initial := bookingDomain.StatusPending
	if req.AutoApprove {
		initial = bookingDomain.StatusAutoApproved
	}

	bk, err := bookingDomain.NewBooking(
		req.HostID, renterID, req.CarID,
		req.StartDate, req.EndDate,
		price, initial, s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk, occupying); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, events.BookingRequested, bk, "", renterID, bookingDomain.ActorRenter, "", 0, 0)

	result := toBookingDTO(bk)
	return &result, nil
}

// CreateManualBooking creates a host-entered offline booking. The same
// two-step conflict validation applies.
func (s *BookingService) CreateManualBooking(ctx context.Context, hostID uuid.UUID, req CreateManualBookingRequest) (*BookingDTO, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	occupying := bookingDomain.OccupyingStatuses(s.config.PendingHolds)
	conflicts, err := s.repo.FindOverlapping(ctx, req.CarID, req.StartDate, req.EndDate, occupying, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, domain.NewConflictError("the vehicle is already booked for part of the requested dates")
	}

	totalDays := rentalDays(req.StartDate, req.EndDate)
	subtotal := req.DailyRate * int64(totalDays)
	price := bookingDomain.PriceBreakdown{
		DailyRate:       req.DailyRate,
		TotalDays:       totalDays,
		Subtotal:        subtotal,
		TotalAmount:     subtotal,
		SecurityDeposit: req.SecurityDeposit,
	}

	bk, err := bookingDomain.NewManualBooking(
		hostID, req.CarID,
		req.StartDate, req.EndDate,
		price,
		bookingDomain.ManualBookingDetails{
			RenterName:  req.RenterName,
			RenterPhone: req.RenterPhone,
			EnteredBy:   hostID,
			Note:        req.Note,
		},
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk, occupying); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// AttemptTransition applies a status change on behalf of an actor. The
// actor must be a party to the booking and hold the role the transition
// table requires; cancellation targets are routed through the policy
// engine for the actor's side.
func (s *BookingService) AttemptTransition(ctx context.Context, bookingID, actorID uuid.UUID, req TransitionRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, ok := bk.PartyRole(actorID)
	if !ok {
		return nil, domain.NewForbiddenError("you are not a party to this booking")
	}

	from := bk.Status()
	now := s.clock.Now()
	var details *bookingDomain.CancellationDetails

	switch req.TargetStatus {
	case bookingDomain.StatusConfirmed:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can confirm a booking")
		}
		if err := bk.Confirm(actorID, now); err != nil {
			return nil, err
		}

	case bookingDomain.StatusInProgress:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can start the rental")
		}
		if err := bk.StartRental(now); err != nil {
			return nil, err
		}

	case bookingDomain.StatusCompleted:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can complete the rental")
		}
		if err := bk.CompleteRental(now); err != nil {
			return nil, err
		}

	case bookingDomain.StatusDisputed:
		if err := bk.MarkDisputed(actorID, now); err != nil {
			return nil, err
		}

	case bookingDomain.StatusRejected:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can decline a request")
		}
		d, err := s.policy.AuthorizeReject(bk, req.Reason)
		if err != nil {
			return nil, err
		}
		if err := bk.ApplyCancellation(bookingDomain.StatusRejected, d, actorID, role, now); err != nil {
			return nil, err
		}
		details = &d

	case bookingDomain.StatusCancelled:
		track := bookingDomain.TrackStandard
		if role == bookingDomain.ActorHost {
			track = bookingDomain.TrackEmergency
		}
		outcome, err := s.Cancel(ctx, bookingID, actorID, track, req.Reason, req.ReasonCode)
		if err != nil {
			return nil, err
		}
		return &outcome.Booking, nil

	default:
		return nil, domain.NewInvalidStateError(string(from), string(req.TargetStatus))
	}

	if err := s.commit(ctx, bk, from, actorID, role, req.Reason, details); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, eventTypeFor(bk.Status()), bk, from, actorID, role, req.Reason, feeOf(details), refundOf(details))

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckCancellation answers whether the renter can cancel right now, the
// deadline, and the refund they would receive. The message explains any
// refusal so callers can render it directly.
func (s *BookingService) CheckCancellation(ctx context.Context, bookingID, actorID uuid.UUID) (*bookingDomain.CancellationInfo, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, ok := bk.PartyRole(actorID)
	if !ok {
		return nil, domain.NewForbiddenError("you are not a party to this booking")
	}
	if role != bookingDomain.ActorRenter {
		return nil, domain.NewForbiddenError("the standard cancellation track applies to the renter only")
	}

	info := s.policy.CheckStandard(bk)
	return &info, nil
}

// Cancel executes a cancellation on the given policy track. The computed
// fee and refund are persisted with the booking for later audit.
func (s *BookingService) Cancel(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	track bookingDomain.CancellationTrack,
	reason string,
	reasonCode bookingDomain.EmergencyReason,
) (*CancellationOutcome, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, ok := bk.PartyRole(actorID)
	if !ok {
		return nil, domain.NewForbiddenError("you are not a party to this booking")
	}

	from := bk.Status()
	now := s.clock.Now()
	target := bookingDomain.StatusCancelled

	var details bookingDomain.CancellationDetails
	switch track {
	case bookingDomain.TrackStandard:
		if role != bookingDomain.ActorRenter {
			return nil, domain.NewForbiddenError("only the renter can use the standard cancellation track")
		}
		details, err = s.policy.AuthorizeStandard(bk, reason)

	case bookingDomain.TrackReject:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can decline a request")
		}
		target = bookingDomain.StatusRejected
		details, err = s.policy.AuthorizeReject(bk, reason)

	case bookingDomain.TrackEmergency:
		if role != bookingDomain.ActorHost {
			return nil, domain.NewForbiddenError("only the host can use the emergency cancellation track")
		}
		details, err = s.policy.AuthorizeEmergency(bk, reasonCode, reason)

	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown cancellation track: %s", track))
	}
	if err != nil {
		return nil, err
	}

	if err := bk.ApplyCancellation(target, details, actorID, role, now); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, bk, from, actorID, role, details.Reason, &details); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, eventTypeFor(bk.Status()), bk, from, actorID, role, details.Reason, details.FeeAmount, details.RefundAmount)

	return &CancellationOutcome{
		Booking:      toBookingDTO(bk),
		FeeAmount:    details.FeeAmount,
		RefundAmount: details.RefundAmount,
	}, nil
}

// CheckConflicts returns the existing occupying bookings whose windows
// overlap the candidate [start,end) range for a vehicle. This is the
// fast-path UX check; creation re-validates inside its transaction.
func (s *BookingService) CheckConflicts(ctx context.Context, carID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]ConflictDTO, error) {
	if !end.After(start) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	occupying := bookingDomain.OccupyingStatuses(s.config.PendingHolds)
	conflicts, err := s.repo.FindOverlapping(ctx, carID, start, end, occupying, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}

	dtos := make([]ConflictDTO, len(conflicts))
	for i, bk := range conflicts {
		dtos[i] = ConflictDTO{
			BookingID: bk.ID(),
			StartDate: bk.StartDate(),
			EndDate:   bk.EndDate(),
			Status:    string(bk.Status()),
		}
	}
	return dtos, nil
}

// EmergencyCancelVehicle emergency-cancels every occupying booking for a
// vehicle pulled from the fleet. Pending requests have no emergency
// pricing and are declined instead. Failures on individual bookings are
// logged and do not stop the sweep.
func (s *BookingService) EmergencyCancelVehicle(ctx context.Context, carID uuid.UUID, detail string) error {
	occupying := bookingDomain.OccupyingStatuses(s.config.PendingHolds)
	bookings, err := s.repo.FindOccupyingByCar(ctx, carID, occupying)
	if err != nil {
		return fmt.Errorf("failed to load bookings for vehicle: %w", err)
	}

	for _, bk := range bookings {
		track := bookingDomain.TrackEmergency
		if bk.Status() == bookingDomain.StatusPending {
			track = bookingDomain.TrackReject
		}
		_, err := s.Cancel(ctx, bk.ID(), bk.HostID(), track,
			detail, bookingDomain.ReasonVehicleBreakdown)
		if err != nil {
			s.logger.Error("failed to emergency-cancel booking for deactivated vehicle",
				zap.String("booking_id", bk.ID().String()),
				zap.String("car_id", carID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// GetBooking retrieves a single booking visible to the given actor.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsParty(actorID) {
		return nil, domain.NewForbiddenError("you are not a party to this booking")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetHostBookings retrieves paginated bookings for a host.
func (s *BookingService) GetHostBookings(ctx context.Context, hostID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByHostID(ctx, hostID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetRenterBookings retrieves paginated bookings for a renter.
func (s *BookingService) GetRenterBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// TransitionRecordDTO is one audit trail entry.
type TransitionRecordDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	FeeAmount  int64     `json:"fee_amount,omitempty"`
	Refund     int64     `json:"refund_amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GetAuditTrail returns a booking's transition log (admin).
func (s *BookingService) GetAuditTrail(ctx context.Context, bookingID uuid.UUID) ([]TransitionRecordDTO, error) {
	records, err := s.auditRepo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}

	dtos := make([]TransitionRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = TransitionRecordDTO{
			ID:         r.ID(),
			BookingID:  r.BookingID(),
			FromStatus: string(r.FromStatus()),
			ToStatus:   string(r.ToStatus()),
			ActorID:    r.ActorID(),
			ActorRole:  r.ActorRole(),
			Reason:     r.Reason(),
			FeeAmount:  r.FeeAmount(),
			Refund:     r.Refund(),
			OccurredAt: r.OccurredAt(),
		}
	}
	return dtos, nil
}

// --- Helpers ---

// commit persists the mutated aggregate with optimistic locking and
// appends the transition to the audit log. The audit append is best
// effort: a failure is logged, never rolled back into the transition.
func (s *BookingService) commit(
	ctx context.Context,
	bk *bookingDomain.Booking,
	from bookingDomain.Status,
	actorID uuid.UUID,
	role bookingDomain.ActorRole,
	reason string,
	details *bookingDomain.CancellationDetails,
) error {
	bk.IncrementVersion(s.clock.Now())
	if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	record := auditDomain.NewTransitionRecord(
		bk.ID(), from, bk.Status(),
		actorID, string(role), reason,
		feeOf(details), refundOf(details),
		s.clock.Now(),
	)
	if err := s.auditRepo.Append(ctx, record); err != nil {
		s.logger.Error("failed to append transition record",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
	return nil
}

func (s *BookingService) publishStatusEvent(
	ctx context.Context,
	eventType string,
	bk *bookingDomain.Booking,
	from bookingDomain.Status,
	actorID uuid.UUID,
	role bookingDomain.ActorRole,
	reason string,
	fee, refund int64,
) {
	evt := events.BookingStatusEvent{
		BookingID:  bk.ID(),
		CarID:      bk.CarID(),
		HostID:     bk.HostID(),
		RenterID:   bk.RenterID(),
		FromStatus: string(from),
		ToStatus:   string(bk.Status()),
		ActorID:    actorID,
		ActorRole:  string(role),
		Reason:     reason,
		FeeAmount:  fee,
		Refund:     refund,
		OccurredAt: s.clock.Now(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func eventTypeFor(status bookingDomain.Status) string {
	switch status {
	case bookingDomain.StatusConfirmed:
		return events.BookingConfirmed
	case bookingDomain.StatusInProgress:
		return events.BookingStarted
	case bookingDomain.StatusCompleted:
		return events.BookingCompleted
	case bookingDomain.StatusCancelled:
		return events.BookingCancelled
	case bookingDomain.StatusRejected:
		return events.BookingRejected
	case bookingDomain.StatusDisputed:
		return events.BookingDisputed
	default:
		return events.BookingRequested
	}
}

func feeOf(d *bookingDomain.CancellationDetails) int64 {
	if d == nil {
		return 0
	}
	return d.FeeAmount
}

func refundOf(d *bookingDomain.CancellationDetails) int64 {
	if d == nil {
		return 0
	}
	return d.RefundAmount
}

// rentalDays counts whole calendar days in [start,end), rounding partial
// days up so an afternoon-to-morning rental still bills a full day.
func rentalDays(start, end time.Time) int {
	days := bookingDomain.DaysUntil(start, end)
	if days < 1 {
		days = 1
	}
	return days
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		HostID:          bk.HostID(),
		RenterID:        bk.RenterID(),
		CarID:           bk.CarID(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		Status:          string(bk.Status()),
		BookingType:     string(bk.BookingType()),
		Price:           bk.Price(),
		ManualDetails:   bk.ManualDetails(),
		ApprovedAt:      bk.ApprovedAt(),
		ApprovedBy:      bk.ApprovedBy(),
		CancelledAt:     bk.CancelledAt(),
		CancelledBy:     bk.CancelledBy(),
		CancelledByType: string(bk.CancelledByType()),
		Cancellation:    bk.Cancellation(),
		DisputedAt:      bk.DisputedAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
