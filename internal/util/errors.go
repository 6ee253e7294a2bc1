package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for SEP
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProbeNotFound indicates a requested probe is not registered
	ErrProbeNotFound = errors.New("probe not found")

	// ErrActionNotFound indicates a requested action is not configured
	ErrActionNotFound = errors.New("action not found")

	// ErrPatternNotFound indicates a requested execution pattern is unknown
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrNoReducer indicates fan-out/fan-in was invoked without a reducer
	ErrNoReducer = errors.New("reducer is required")

	// ErrUnknownKind indicates an action definition names an unsupported kind
	ErrUnknownKind = errors.New("unknown action kind")

	// ErrShutdown indicates the engine is shutting down
	ErrShutdown = errors.New("system shutting down")
)

// ActionError wraps an error with the name of the action that produced it
type ActionError struct {
	Action string
	Err    error
}

// Error implements the error interface
func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q: %v", e.Action, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ActionError) Unwrap() error {
	return e.Err
}

// WrapActionError wraps an error with action context
func WrapActionError(actionName string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{
		Action: actionName,
		Err:    err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties every validation failure to ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProbeNotFound) ||
		errors.Is(err, ErrActionNotFound) ||
		errors.Is(err, ErrPatternNotFound)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrProbeNotFound):
		return "Probe not found. Run 'sep health' without a name to list every registered probe."
	case errors.Is(err, ErrActionNotFound):
		return "Action not found. Configure it under 'actions' in your config file, or run 'sep retry' without a name for the demo action."
	case errors.Is(err, ErrPatternNotFound):
		return "Pattern not found. Supported patterns are parallel, fanoutfanin and invokewithretry."
	case errors.Is(err, ErrNoReducer):
		return "Fan-out/fan-in needs a reducer. Configure one under 'reducer' in your config file."
	case errors.Is(err, ErrUnknownKind):
		return "Unknown action kind. Supported kinds are sleep, fail, flaky, http and kubernetes."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	default:
		return err.Error()
	}
}
