package booking

import "github.com/google/uuid"

// BookingType distinguishes marketplace bookings from host-entered ones.
type BookingType string

const (
	// TypeOnline is a booking created by a renter through the marketplace.
	TypeOnline BookingType = "ONLINE"
	// TypeOffline is a booking entered manually by the host, e.g. a walk-in
	// or phone rental. Offline bookings have no reviewable counterparty and
	// no in-app messaging thread.
	TypeOffline BookingType = "OFFLINE"
)

// IsValid returns true if the booking type is recognized.
func (t BookingType) IsValid() bool {
	return t == TypeOnline || t == TypeOffline
}

// ActorRole identifies which side of the booking an actor is on.
type ActorRole string

const (
	ActorHost   ActorRole = "host"
	ActorRenter ActorRole = "renter"
)

// IsValid returns true if the role is recognized.
func (r ActorRole) IsValid() bool {
	return r == ActorHost || r == ActorRenter
}

// CancellationTrack identifies which policy track priced a cancellation.
type CancellationTrack string

const (
	// TrackStandard is a renter-initiated cancellation before the deadline.
	TrackStandard CancellationTrack = "standard"
	// TrackReject is a host declining a request before it starts.
	TrackReject CancellationTrack = "reject"
	// TrackEmergency is a host-initiated cancellation that is always
	// permitted, priced by the emergency fee table.
	TrackEmergency CancellationTrack = "emergency"
)

// EmergencyReason is an enumerated reason code for emergency cancellations.
type EmergencyReason string

const (
	ReasonVehicleBreakdown EmergencyReason = "vehicle_breakdown"
	ReasonAccident         EmergencyReason = "accident"
	ReasonSafetyConcern    EmergencyReason = "safety_concern"
	ReasonOther            EmergencyReason = "other"
)

// IsValid returns true if the reason code is recognized.
func (r EmergencyReason) IsValid() bool {
	switch r {
	case ReasonVehicleBreakdown, ReasonAccident, ReasonSafetyConcern, ReasonOther:
		return true
	}
	return false
}

// ManualBookingDetails describes a host-entered offline booking. It is a
// structured replacement for the free-text note the dashboards used to
// parse to detect manual bookings.
type ManualBookingDetails struct {
	RenterName  string    `json:"renter_name"`
	RenterPhone string    `json:"renter_phone,omitempty"`
	EnteredBy   uuid.UUID `json:"entered_by"`
	Note        string    `json:"note,omitempty"`
}

// CancellationDetails is the audit record persisted with a cancellation.
// Fee and refund are stored as computed so later inspection does not
// depend on the fee tables in force at read time.
type CancellationDetails struct {
	Track        CancellationTrack `json:"track"`
	ReasonCode   EmergencyReason   `json:"reason_code,omitempty"`
	Reason       string            `json:"reason"`
	FeeAmount    int64             `json:"fee_amount"`
	RefundAmount int64             `json:"refund_amount"`
}
