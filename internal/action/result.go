package action

import (
	"time"
)

const (
	// CodeSuccess is the code of a successful result
	CodeSuccess = "0"

	// CodeError is the generic code used when an error is converted to a result
	CodeError = "100"
)

// Result is the outcome of one action execution.
// It is a value type; copies never share mutable state with the engine.
type Result struct {
	// Code is CodeSuccess for success, anything else is a failure
	Code string `json:"code" yaml:"code"`

	// Message accompanies either a successful or a failed result
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Data is the payload produced by the action
	Data any `json:"data,omitempty" yaml:"data,omitempty"`

	// Duration is measured by the engine
	Duration time.Duration `json:"-" yaml:"-"`
}

// Success creates a successful result with no message
func Success() Result {
	return Result{Code: CodeSuccess}
}

// SuccessMessage creates a successful result with a message
func SuccessMessage(message string) Result {
	return Result{Code: CodeSuccess, Message: message}
}

// SuccessData creates a successful result carrying data
func SuccessData(data any) Result {
	return Result{Code: CodeSuccess, Data: data}
}

// SuccessWith creates a successful result with both a message and data
func SuccessWith(message string, data any) Result {
	return Result{Code: CodeSuccess, Message: message, Data: data}
}

// Failure creates a failed result with an explicit code
func Failure(code, message string) Result {
	return Result{Code: code, Message: message}
}

// FromError converts err into a failed result with CodeError
func FromError(err error) Result {
	if err == nil {
		return Result{Code: CodeError}
	}
	return Result{Code: CodeError, Message: err.Error()}
}

// OK reports whether the result is a success
func (r Result) OK() bool {
	return r.Code == CodeSuccess
}

// WithDuration returns a copy of r with the duration set
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}
