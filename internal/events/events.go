package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics this service produces to or consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicFleetEvents   = "fleet.events"
)

// Event types on booking.events.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingStarted   = "booking.started"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingRejected  = "booking.rejected"
	BookingDisputed  = "booking.disputed"
	ReviewSubmitted  = "review.submitted"
)

// Event types on fleet.events (produced by the fleet service).
const (
	FleetVehicleDeactivated = "fleet.vehicle_deactivated"
)

// BookingStatusEvent is published after every committed status change.
// Downstream consumers (notifications, payouts) treat it as best effort;
// a failed publish never rolls back the committed transition.
type BookingStatusEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarID      uuid.UUID `json:"car_id"`
	HostID     uuid.UUID `json:"host_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	FeeAmount  int64     `json:"fee_amount,omitempty"`
	Refund     int64     `json:"refund_amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewSubmittedEvent is published when a review is created.
type ReviewSubmittedEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VehicleDeactivatedEvent is consumed from the fleet service when a
// vehicle is pulled from circulation (breakdown, accident, delisting).
type VehicleDeactivatedEvent struct {
	CarID      uuid.UUID `json:"car_id"`
	HostID     uuid.UUID `json:"host_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
