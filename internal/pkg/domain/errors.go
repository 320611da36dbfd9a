package domain

import "fmt"

// ErrorCode identifies the category of a domain error.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeDeadlinePassed  ErrorCode = "DEADLINE_PASSED"
	CodeAlreadyReviewed ErrorCode = "ALREADY_REVIEWED"
)

// DomainError is an expected, caller-recoverable failure. The message is
// safe to surface directly to API clients.
type DomainError struct {
	Code    ErrorCode
	Message string
}

// Error returns the human-readable message.
func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError reports malformed or inconsistent input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing entity by type and identifier.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// NewForbiddenError reports an actor acting outside their authority.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewInvalidStateError reports a status transition not permitted by the
// booking state machine.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

// NewInvalidStateMessage reports an illegal state with a custom message.
func NewInvalidStateMessage(message string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: message}
}

// NewConflictError reports a lost optimistic-lock race or an overlapping
// reservation window.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewDeadlinePassedError reports a standard cancellation attempted after
// its deadline.
func NewDeadlinePassedError(message string) *DomainError {
	return &DomainError{Code: CodeDeadlinePassed, Message: message}
}

// NewAlreadyReviewedError reports a duplicate review for the same
// (booking, reviewer, reviewed) triple.
func NewAlreadyReviewedError(message string) *DomainError {
	return &DomainError{Code: CodeAlreadyReviewed, Message: message}
}
