package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

// RefundTier maps a minimum lead time to a refund percentage. Tiers are
// evaluated from the largest MinDaysBefore down; the first tier whose
// threshold is met applies.
type RefundTier struct {
	MinDaysBefore int   `json:"min_days_before" mapstructure:"min_days_before"`
	RefundPercent int64 `json:"refund_percent" mapstructure:"refund_percent"`
}

// PolicyConfig holds the externally supplied cancellation rules. The
// deadline offset and both fee schedules come from configuration; the
// engine never derives breakpoints itself.
type PolicyConfig struct {
	// DeadlineOffset is how long before start_date standard renter
	// cancellation closes.
	DeadlineOffset time.Duration
	// RefundTiers is the standard-track refund schedule.
	RefundTiers []RefundTier
	// EmergencyFeePercent maps each emergency reason to the fee rate
	// applied to the booking's total amount.
	EmergencyFeePercent map[EmergencyReason]int64
	// PendingHolds controls whether pending requests occupy the calendar.
	PendingHolds bool
}

// CancellationInfo is the answer to "can the renter cancel right now".
type CancellationInfo struct {
	CanCancel            bool       `json:"can_cancel"`
	CancellationDeadline *time.Time `json:"cancellation_deadline,omitempty"`
	DaysUntilDeadline    int        `json:"days_until_deadline"`
	Message              string     `json:"cancellation_message"`
	PotentialRefund      int64      `json:"potential_refund"`
}

// PolicyEngine computes cancellation permissions, deadlines and refunds.
type PolicyEngine struct {
	config PolicyConfig
	clock  Clock
}

// NewPolicyEngine creates a PolicyEngine with the given rules and clock.
func NewPolicyEngine(config PolicyConfig, clock Clock) *PolicyEngine {
	return &PolicyEngine{config: config, clock: clock}
}

// DaysUntil returns the number of calendar days from now until t, rounded
// up. Ceiling rounding keeps a booking starting tomorrow morning counted
// as one day away even late tonight.
func DaysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// standardCancellable is the status set the standard renter track applies to.
func standardCancellable(s Status) bool {
	return s == StatusPending || s == StatusAutoApproved || s == StatusConfirmed
}

// emergencyCancellable is the status set the emergency host track applies to.
func emergencyCancellable(s Status) bool {
	return s == StatusConfirmed || s == StatusAutoApproved || s == StatusInProgress
}

// CheckStandard reports whether a standard renter cancellation is
// currently permitted, the deadline, and the refund the renter would
// receive. It never errors; ineligibility is reported in the message.
func (e *PolicyEngine) CheckStandard(b *Booking) CancellationInfo {
	if !standardCancellable(b.Status()) {
		return CancellationInfo{
			CanCancel: false,
			Message:   fmt.Sprintf("booking in status %s cannot be cancelled by the renter", b.Status()),
		}
	}

	now := e.clock.Now()
	deadline := b.StartDate().Add(-e.config.DeadlineOffset)
	daysUntilDeadline := DaysUntil(now, deadline)

	if daysUntilDeadline <= 0 {
		return CancellationInfo{
			CanCancel:            false,
			CancellationDeadline: &deadline,
			DaysUntilDeadline:    daysUntilDeadline,
			Message: fmt.Sprintf(
				"the free cancellation deadline (%s) has passed; contact the host for emergency options",
				deadline.Format(time.RFC3339)),
		}
	}

	refund := e.standardRefund(b)
	return CancellationInfo{
		CanCancel:            true,
		CancellationDeadline: &deadline,
		DaysUntilDeadline:    daysUntilDeadline,
		Message: fmt.Sprintf("cancellation is free to request until %s",
			deadline.Format(time.RFC3339)),
		PotentialRefund: refund,
	}
}

// AuthorizeStandard validates a standard renter cancellation and prices
// it. A typed error is returned when the booking is not in a cancellable
// status or the deadline has passed.
func (e *PolicyEngine) AuthorizeStandard(b *Booking, reason string) (CancellationDetails, error) {
	if !standardCancellable(b.Status()) {
		return CancellationDetails{}, domain.NewInvalidStateMessage(
			fmt.Sprintf("booking in status %s cannot be cancelled by the renter", b.Status()))
	}

	info := e.CheckStandard(b)
	if !info.CanCancel {
		return CancellationDetails{}, domain.NewDeadlinePassedError(info.Message)
	}

	refund := info.PotentialRefund
	return CancellationDetails{
		Track:        TrackStandard,
		Reason:       reason,
		FeeAmount:    b.Price().TotalAmount - refund,
		RefundAmount: refund,
	}, nil
}

// AuthorizeReject validates a host declining a pending request. Rejection
// is free for the renter and stays open while the start is at least one
// ceiling-rounded day away, so any instant before start qualifies.
func (e *PolicyEngine) AuthorizeReject(b *Booking, reason string) (CancellationDetails, error) {
	if !b.Status().IsInitial() {
		return CancellationDetails{}, domain.NewInvalidStateMessage(
			fmt.Sprintf("booking in status %s cannot be rejected", b.Status()))
	}

	if DaysUntil(e.clock.Now(), b.StartDate()) < 1 {
		return CancellationDetails{}, domain.NewDeadlinePassedError(
			"requests can only be declined at least one day before the rental starts")
	}

	return CancellationDetails{
		Track:        TrackReject,
		Reason:       reason,
		FeeAmount:    0,
		RefundAmount: b.Price().TotalAmount,
	}, nil
}

// AuthorizeEmergency validates and prices a host emergency cancellation.
// It is permitted regardless of the deadline; the fee comes from the
// reason-specific rate applied to the total amount.
func (e *PolicyEngine) AuthorizeEmergency(b *Booking, reasonCode EmergencyReason, detail string) (CancellationDetails, error) {
	if !emergencyCancellable(b.Status()) {
		return CancellationDetails{}, domain.NewInvalidStateMessage(
			fmt.Sprintf("booking in status %s cannot be emergency-cancelled", b.Status()))
	}
	if !reasonCode.IsValid() {
		return CancellationDetails{}, domain.NewValidationError(
			fmt.Sprintf("unknown emergency reason: %s", reasonCode))
	}

	percent, ok := e.config.EmergencyFeePercent[reasonCode]
	if !ok {
		return CancellationDetails{}, domain.NewValidationError(
			fmt.Sprintf("no fee rate configured for emergency reason %s", reasonCode))
	}

	total := b.Price().TotalAmount
	fee := total * percent / 100
	return CancellationDetails{
		Track:        TrackEmergency,
		ReasonCode:   reasonCode,
		Reason:       detail,
		FeeAmount:    fee,
		RefundAmount: total - fee,
	}, nil
}

// standardRefund applies the refund tier schedule to the booking's total.
// The refund never increases as the start date approaches.
func (e *PolicyEngine) standardRefund(b *Booking) int64 {
	daysUntilStart := DaysUntil(e.clock.Now(), b.StartDate())

	best := int64(0)
	bestThreshold := -1
	for _, tier := range e.config.RefundTiers {
		if daysUntilStart >= tier.MinDaysBefore && tier.MinDaysBefore > bestThreshold {
			best = tier.RefundPercent
			bestThreshold = tier.MinDaysBefore
		}
	}
	return b.Price().TotalAmount * best / 100
}
