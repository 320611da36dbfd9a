package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

// Booking is the aggregate root for the rental booking domain. Parties,
// vehicle and dates are immutable after creation; all status changes go
// through the guarded behavior methods below.
type Booking struct {
	id       uuid.UUID
	hostID   uuid.UUID
	renterID uuid.UUID
	carID    uuid.UUID

	startDate time.Time
	endDate   time.Time

	status      Status
	bookingType BookingType
	price       PriceBreakdown

	manualDetails *ManualBookingDetails

	approvedAt *time.Time
	approvedBy *uuid.UUID

	cancelledAt     *time.Time
	cancelledBy     *uuid.UUID
	cancelledByType ActorRole
	cancellation    *CancellationDetails

	disputedAt *time.Time
	disputedBy *uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a renter-initiated booking. The initial status is
// PENDING or AUTO_APPROVED depending on the host's auto-approval
// preference, which is decided by the caller.
func NewBooking(
	hostID, renterID, carID uuid.UUID,
	startDate, endDate time.Time,
	price PriceBreakdown,
	initialStatus Status,
	now time.Time,
) (*Booking, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if hostID == renterID {
		return nil, domain.NewValidationError("host and renter must be different users")
	}
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if !initialStatus.IsInitial() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("bookings cannot be created in status %s", initialStatus))
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	return &Booking{
		id:          uuid.New(),
		hostID:      hostID,
		renterID:    renterID,
		carID:       carID,
		startDate:   startDate,
		endDate:     endDate,
		status:      initialStatus,
		bookingType: TypeOnline,
		price:       price,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewManualBooking creates a host-entered offline booking. It starts
// CONFIRMED (the host already agreed with the renter off-platform) and
// carries no marketplace renter account.
func NewManualBooking(
	hostID, carID uuid.UUID,
	startDate, endDate time.Time,
	price PriceBreakdown,
	details ManualBookingDetails,
	now time.Time,
) (*Booking, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if details.RenterName == "" {
		return nil, domain.NewValidationError("renter name is required for a manual booking")
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	approvedAt := now
	approvedBy := hostID
	return &Booking{
		id:            uuid.New(),
		hostID:        hostID,
		renterID:      uuid.Nil,
		carID:         carID,
		startDate:     startDate,
		endDate:       endDate,
		status:        StatusConfirmed,
		bookingType:   TypeOffline,
		price:         price,
		manualDetails: &details,
		approvedAt:    &approvedAt,
		approvedBy:    &approvedBy,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, hostID, renterID, carID uuid.UUID,
	startDate, endDate time.Time,
	status Status,
	bookingType BookingType,
	price PriceBreakdown,
	manualDetails *ManualBookingDetails,
	approvedAt *time.Time,
	approvedBy *uuid.UUID,
	cancelledAt *time.Time,
	cancelledBy *uuid.UUID,
	cancelledByType ActorRole,
	cancellation *CancellationDetails,
	disputedAt *time.Time,
	disputedBy *uuid.UUID,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		hostID:          hostID,
		renterID:        renterID,
		carID:           carID,
		startDate:       startDate,
		endDate:         endDate,
		status:          status,
		bookingType:     bookingType,
		price:           price,
		manualDetails:   manualDetails,
		approvedAt:      approvedAt,
		approvedBy:      approvedBy,
		cancelledAt:     cancelledAt,
		cancelledBy:     cancelledBy,
		cancelledByType: cancelledByType,
		cancellation:    cancellation,
		disputedAt:      disputedAt,
		disputedBy:      disputedBy,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID       { return b.id }
func (b *Booking) HostID() uuid.UUID   { return b.hostID }
func (b *Booking) RenterID() uuid.UUID { return b.renterID }
func (b *Booking) CarID() uuid.UUID    { return b.carID }

func (b *Booking) StartDate() time.Time { return b.startDate }
func (b *Booking) EndDate() time.Time   { return b.endDate }

func (b *Booking) Status() Status           { return b.status }
func (b *Booking) BookingType() BookingType { return b.bookingType }
func (b *Booking) Price() PriceBreakdown    { return b.price }

// IsManual returns true for host-entered offline bookings.
func (b *Booking) IsManual() bool { return b.bookingType == TypeOffline }

func (b *Booking) ManualDetails() *ManualBookingDetails { return b.manualDetails }

func (b *Booking) ApprovedAt() *time.Time { return b.approvedAt }
func (b *Booking) ApprovedBy() *uuid.UUID { return b.approvedBy }

func (b *Booking) CancelledAt() *time.Time            { return b.cancelledAt }
func (b *Booking) CancelledBy() *uuid.UUID            { return b.cancelledBy }
func (b *Booking) CancelledByType() ActorRole         { return b.cancelledByType }
func (b *Booking) Cancellation() *CancellationDetails { return b.cancellation }

func (b *Booking) DisputedAt() *time.Time { return b.disputedAt }
func (b *Booking) DisputedBy() *uuid.UUID { return b.disputedBy }

func (b *Booking) Version() int64       { return b.version }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// PartyRole returns which side of the booking the user is on.
func (b *Booking) PartyRole(userID uuid.UUID) (ActorRole, bool) {
	switch userID {
	case b.hostID:
		return ActorHost, true
	case b.renterID:
		if b.renterID == uuid.Nil {
			return "", false
		}
		return ActorRenter, true
	default:
		return "", false
	}
}

// IsParty returns true if the user is the host or the renter.
func (b *Booking) IsParty(userID uuid.UUID) bool {
	_, ok := b.PartyRole(userID)
	return ok
}

// --- Behavior ---

// Confirm moves a pending or auto-approved request to CONFIRMED and
// records the approving host.
func (b *Booking) Confirm(approvedBy uuid.UUID, now time.Time) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.approvedAt = &now
	b.approvedBy = &approvedBy
	b.updatedAt = now
	return nil
}

// StartRental moves a confirmed booking to IN_PROGRESS at handover.
func (b *Booking) StartRental(now time.Time) error {
	if !b.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(b.status), string(StatusInProgress))
	}
	b.status = StatusInProgress
	b.updatedAt = now
	return nil
}

// CompleteRental moves an in-progress booking to COMPLETED at return.
func (b *Booking) CompleteRental(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// MarkDisputed moves any non-terminal booking to DISPUTED and records who
// raised it. Resolution happens outside this engine.
func (b *Booking) MarkDisputed(raisedBy uuid.UUID, now time.Time) error {
	if !b.status.CanTransitionTo(StatusDisputed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusDisputed))
	}
	b.status = StatusDisputed
	b.disputedAt = &now
	b.disputedBy = &raisedBy
	b.updatedAt = now
	return nil
}

// ApplyCancellation moves the booking to CANCELLED (or REJECTED for a
// declined request) and records the full cancellation audit: actor, side,
// time, and the priced details computed by the policy engine.
func (b *Booking) ApplyCancellation(
	target Status,
	details CancellationDetails,
	cancelledBy uuid.UUID,
	cancelledByType ActorRole,
	now time.Time,
) error {
	if target != StatusCancelled && target != StatusRejected {
		return domain.NewValidationError(
			fmt.Sprintf("%s is not a cancellation status", target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.cancelledAt = &now
	b.cancelledBy = &cancelledBy
	b.cancelledByType = cancelledByType
	b.cancellation = &details
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion(now time.Time) {
	b.version++
	b.updatedAt = now
}
