package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/domain/booking"
)

// TransitionRecord is one entry in a booking's append-only transition
// log: who moved the booking, from where to where, and any priced
// cancellation attached to the change. Records are never mutated.
type TransitionRecord struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	fromStatus booking.Status
	toStatus   booking.Status
	actorID    uuid.UUID
	actorRole  string
	reason     string
	feeAmount  int64
	refund     int64
	occurredAt time.Time
}

// NewTransitionRecord creates a record for a committed transition.
func NewTransitionRecord(
	bookingID uuid.UUID,
	from, to booking.Status,
	actorID uuid.UUID,
	actorRole string,
	reason string,
	feeAmount, refund int64,
	occurredAt time.Time,
) *TransitionRecord {
	return &TransitionRecord{
		id:         uuid.New(),
		bookingID:  bookingID,
		fromStatus: from,
		toStatus:   to,
		actorID:    actorID,
		actorRole:  actorRole,
		reason:     reason,
		feeAmount:  feeAmount,
		refund:     refund,
		occurredAt: occurredAt,
	}
}

// ReconstructTransitionRecord rebuilds a record from persistence data.
func ReconstructTransitionRecord(
	id, bookingID uuid.UUID,
	from, to booking.Status,
	actorID uuid.UUID,
	actorRole, reason string,
	feeAmount, refund int64,
	occurredAt time.Time,
) *TransitionRecord {
	return &TransitionRecord{
		id:         id,
		bookingID:  bookingID,
		fromStatus: from,
		toStatus:   to,
		actorID:    actorID,
		actorRole:  actorRole,
		reason:     reason,
		feeAmount:  feeAmount,
		refund:     refund,
		occurredAt: occurredAt,
	}
}

func (r *TransitionRecord) ID() uuid.UUID              { return r.id }
func (r *TransitionRecord) BookingID() uuid.UUID       { return r.bookingID }
func (r *TransitionRecord) FromStatus() booking.Status { return r.fromStatus }
func (r *TransitionRecord) ToStatus() booking.Status   { return r.toStatus }
func (r *TransitionRecord) ActorID() uuid.UUID         { return r.actorID }
func (r *TransitionRecord) ActorRole() string          { return r.actorRole }
func (r *TransitionRecord) Reason() string             { return r.reason }
func (r *TransitionRecord) FeeAmount() int64           { return r.feeAmount }
func (r *TransitionRecord) Refund() int64              { return r.refund }
func (r *TransitionRecord) OccurredAt() time.Time      { return r.occurredAt }
