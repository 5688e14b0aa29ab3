// Package tgerrors defines the dispatch engine's error taxonomy. Handler
// and middleware bodies return plain errors; this package only wraps them
// with the kind that tells the observer/router how to react.
package tgerrors

import (
	"errors"
	"fmt"
)

// ExtractionError reports that a handler argument could not be built from
// (bot, update, context).
type ExtractionError struct {
	Param string
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("extraction failed: %v", e.Cause)
	}
	return fmt.Sprintf("extraction failed for %q: %v", e.Param, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// NewExtractionError wraps cause as an ExtractionError for the named
// parameter (param may be empty when no single name applies).
func NewExtractionError(param string, cause error) *ExtractionError {
	return &ExtractionError{Param: param, Cause: cause}
}

// HandlerError wraps the error a user handler body returned.
type HandlerError struct {
	Cause error
}

func (e *HandlerError) Error() string { return fmt.Sprintf("handler error: %v", e.Cause) }
func (e *HandlerError) Unwrap() error { return e.Cause }

// NewHandlerError wraps cause as a HandlerError.
func NewHandlerError(cause error) *HandlerError { return &HandlerError{Cause: cause} }

// MiddlewareError wraps the error an outer or inner middleware returned.
type MiddlewareError struct {
	Cause error
}

func (e *MiddlewareError) Error() string { return fmt.Sprintf("middleware error: %v", e.Cause) }
func (e *MiddlewareError) Unwrap() error { return e.Cause }

// NewMiddlewareError wraps cause as a MiddlewareError.
func NewMiddlewareError(cause error) *MiddlewareError { return &MiddlewareError{Cause: cause} }

// EventErrorKind is the sum type of the three ways dispatch of a single
// update can fail. Exactly one of the three constructors below produces a
// non-nil value of this type.
type EventErrorKind struct {
	Extraction *ExtractionError
	Handler    *HandlerError
	Middleware *MiddlewareError
}

func (e *EventErrorKind) Error() string {
	switch {
	case e == nil:
		return "<nil event error>"
	case e.Extraction != nil:
		return e.Extraction.Error()
	case e.Handler != nil:
		return e.Handler.Error()
	case e.Middleware != nil:
		return e.Middleware.Error()
	default:
		return "event error"
	}
}

func (e *EventErrorKind) Unwrap() error {
	switch {
	case e == nil:
		return nil
	case e.Extraction != nil:
		return e.Extraction
	case e.Handler != nil:
		return e.Handler
	case e.Middleware != nil:
		return e.Middleware
	default:
		return nil
	}
}

// FromExtraction builds an EventErrorKind around an extraction failure.
func FromExtraction(err *ExtractionError) *EventErrorKind {
	return &EventErrorKind{Extraction: err}
}

// FromHandler builds an EventErrorKind around a handler failure.
func FromHandler(err error) *EventErrorKind {
	var he *HandlerError
	if !errors.As(err, &he) {
		he = NewHandlerError(err)
	}
	return &EventErrorKind{Handler: he}
}

// FromMiddleware builds an EventErrorKind around a middleware failure.
func FromMiddleware(err error) *EventErrorKind {
	var me *MiddlewareError
	if !errors.As(err, &me) {
		me = NewMiddlewareError(err)
	}
	return &EventErrorKind{Middleware: me}
}

// StorageError reports a failure in an FSM Storage backend operation.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string { return fmt.Sprintf("fsm storage %s: %v", e.Op, e.Cause) }
func (e *StorageError) Unwrap() error { return e.Cause }

// NewStorageError wraps cause with the operation name that failed.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{Op: op, Cause: cause}
}

// InitError reports that a Factory could not build its Service.
type InitError struct {
	Cause error
}

func (e *InitError) Error() string { return fmt.Sprintf("service init failed: %v", e.Cause) }
func (e *InitError) Unwrap() error { return e.Cause }

// NewInitError wraps cause as an InitError.
func NewInitError(cause error) *InitError { return &InitError{Cause: cause} }
