package review

import (
	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/domain/booking"
)

// Eligibility is the verdict on whether a review may be submitted. Reason
// is always populated when CanReview is false so callers never have to
// guess why eligibility failed.
type Eligibility struct {
	CanReview bool   `json:"can_review"`
	Reason    string `json:"reason,omitempty"`
}

func ineligible(reason string) Eligibility {
	return Eligibility{CanReview: false, Reason: reason}
}

// CheckEligibility evaluates the (booking, reviewer, reviewee) triple.
// Each direction is independent: the host reviewing the renter neither
// requires nor blocks the renter reviewing the host. alreadyExists
// reports whether a review for this exact triple is already stored.
func CheckEligibility(b *booking.Booking, reviewerID, revieweeID uuid.UUID, alreadyExists bool) Eligibility {
	if b.Status() != booking.StatusCompleted {
		return ineligible("booking is not completed")
	}
	if b.IsManual() {
		return ineligible("offline bookings are not reviewable")
	}

	reviewerRole, ok := b.PartyRole(reviewerID)
	if !ok {
		return ineligible("reviewer is not a party to this booking")
	}
	revieweeRole, ok := b.PartyRole(revieweeID)
	if !ok {
		return ineligible("reviewed user is not a party to this booking")
	}
	if reviewerRole == revieweeRole {
		return ineligible("reviewer and reviewed user must be opposite parties")
	}

	if alreadyExists {
		return ineligible("you have already reviewed this booking")
	}

	return Eligibility{CanReview: true}
}

// Counterparty returns the other party of the booking relative to userID.
func Counterparty(b *booking.Booking, userID uuid.UUID) (uuid.UUID, bool) {
	role, ok := b.PartyRole(userID)
	if !ok {
		return uuid.Nil, false
	}
	if role == booking.ActorHost {
		return b.RenterID(), b.RenterID() != uuid.Nil
	}
	return b.HostID(), true
}
