package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusAutoApproved Status = "AUTO_APPROVED"
	StatusConfirmed    Status = "CONFIRMED"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusCompleted    Status = "COMPLETED"
	StatusCancelled    Status = "CANCELLED"
	StatusRejected     Status = "REJECTED"
	StatusDisputed     Status = "DISPUTED"
)

// validTransitions defines the state machine for booking status changes.
// DISPUTED is reachable from every non-terminal status; dispute resolution
// is handled by an external administrative process.
var validTransitions = map[Status][]Status{
	StatusPending:      {StatusConfirmed, StatusRejected, StatusCancelled, StatusDisputed},
	StatusAutoApproved: {StatusConfirmed, StatusRejected, StatusCancelled, StatusDisputed},
	StatusConfirmed:    {StatusInProgress, StatusCancelled, StatusDisputed},
	StatusInProgress:   {StatusCompleted, StatusCancelled, StatusDisputed},
	StatusCompleted:    {},
	StatusCancelled:    {},
	StatusRejected:     {},
	StatusDisputed:     {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed by the state machine.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsInitial returns true for the statuses a booking may be created in.
// Whether a new request starts PENDING or AUTO_APPROVED is decided by the
// host's auto-approval preference, outside this engine.
func (s Status) IsInitial() bool {
	return s == StatusPending || s == StatusAutoApproved
}

// OccupiesCalendar returns true if a booking in this status blocks the
// vehicle's calendar for conflict detection. Pending requests count only
// when the marketplace treats them as soft holds.
func (s Status) OccupiesCalendar(pendingHolds bool) bool {
	switch s {
	case StatusConfirmed, StatusAutoApproved, StatusInProgress:
		return true
	case StatusPending:
		return pendingHolds
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// OccupyingStatuses returns the set of statuses that block a vehicle's
// calendar under the given pending-holds policy.
func OccupyingStatuses(pendingHolds bool) []Status {
	statuses := []Status{StatusConfirmed, StatusAutoApproved, StatusInProgress}
	if pendingHolds {
		statuses = append(statuses, StatusPending)
	}
	return statuses
}
