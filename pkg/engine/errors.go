package engine

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an engine error.
// All engine errors are local validation or precondition failures;
// none are transient, so there is no retry classification.
type ErrorClass string

const (
	// ErrorClassValidation indicates invalid input at construction time.
	// Examples: malformed requirement specs, empty product list.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassPrecondition indicates an operation invoked from a state
	// that does not permit it. Example: resuming a job that is not on hold.
	ErrorClassPrecondition ErrorClass = "precondition"

	// ErrorClassNotFound indicates a lookup for an entity the engine
	// does not know about.
	ErrorClassNotFound ErrorClass = "not_found"
)

// EngineError represents a classified error with entity context.
// nolint:revive // EngineError is intentionally named to distinguish from standard errors
type EngineError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Job is the job ID involved, if applicable.
	Job string `json:"job,omitempty"`

	// Action is the action ID involved, if applicable.
	Action string `json:"action,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Job != "" {
		msg += fmt.Sprintf(" (job=%s)", e.Job)
	}
	if e.Action != "" {
		msg += fmt.Sprintf(" (action=%s)", e.Action)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassValidation,
		Message: message,
		Err:     err,
	}
}

// NewPreconditionError creates a new precondition error.
func NewPreconditionError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassPrecondition,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassNotFound,
		Message: message,
		Err:     err,
	}
}

// WithCode adds an error code to an error.
func (e *EngineError) WithCode(code string) *EngineError {
	e.Code = code
	return e
}

// WithJob adds job context to an error.
func (e *EngineError) WithJob(jobID string) *EngineError {
	e.Job = jobID
	return e
}

// WithAction adds action context to an error.
func (e *EngineError) WithAction(actionID string) *EngineError {
	e.Action = actionID
	return e
}

// WithDetail adds a detail field to the error context.
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// hasCode reports whether err carries the given engine error code.
func hasCode(err error, code string) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsInvalidRequirement returns true if the error is a requirement
// validation failure.
func IsInvalidRequirement(err error) bool {
	return hasCode(err, ErrCodeInvalidRequirement)
}

// IsUnknownAction returns true if the error reports an action the job
// does not own.
func IsUnknownAction(err error) bool {
	return hasCode(err, ErrCodeUnknownAction)
}

// IsInvalidTransition returns true if the error reports a lifecycle
// method invoked from a state that does not permit it.
func IsInvalidTransition(err error) bool {
	return hasCode(err, ErrCodeInvalidTransition)
}

// IsInvalidJob returns true if the error is a job construction failure.
func IsInvalidJob(err error) bool {
	return hasCode(err, ErrCodeInvalidJob)
}

// IsUnsupportedKind returns true if the error reports a requirement
// kind the checker has no rule for (strict mode only).
func IsUnsupportedKind(err error) bool {
	return hasCode(err, ErrCodeUnsupportedKind)
}

// Engine error codes.
const (
	ErrCodeInvalidRequirement = "INVALID_REQUIREMENT"
	ErrCodeUnknownAction      = "UNKNOWN_ACTION"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeInvalidJob         = "INVALID_JOB"
	ErrCodeUnsupportedKind    = "UNSUPPORTED_KIND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
)
