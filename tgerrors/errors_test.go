package tgerrors

import (
	"errors"
	"testing"
)

func TestExtractionError_UnwrapAndErrorsAs(t *testing.T) {
	cause := errors.New("no text field")
	err := NewExtractionError("text", cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}

	var target *ExtractionError
	if !errors.As(error(err), &target) || target.Param != "text" {
		t.Fatalf("errors.As() did not recover ExtractionError, got %+v", target)
	}
}

func TestHandlerError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewHandlerError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}
}

func TestMiddlewareError_Unwrap(t *testing.T) {
	cause := errors.New("denied")
	err := NewMiddlewareError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}
}

func TestEventErrorKind_FromExtraction(t *testing.T) {
	ee := FromExtraction(NewExtractionError("chat_id", errors.New("missing")))
	if ee.Extraction == nil || ee.Handler != nil || ee.Middleware != nil {
		t.Fatalf("FromExtraction() = %+v, want only Extraction set", ee)
	}
	if ee.Unwrap() != ee.Extraction {
		t.Fatal("Unwrap() did not return the Extraction cause")
	}
}

func TestEventErrorKind_FromHandler_WrapsPlainError(t *testing.T) {
	plain := errors.New("plain failure")
	ee := FromHandler(plain)
	if ee.Handler == nil || ee.Handler.Cause != plain {
		t.Fatalf("FromHandler() = %+v, want Handler wrapping %v", ee, plain)
	}
}

func TestEventErrorKind_FromHandler_PreservesExistingHandlerError(t *testing.T) {
	he := NewHandlerError(errors.New("already wrapped"))
	ee := FromHandler(he)
	if ee.Handler != he {
		t.Fatalf("FromHandler() rewrapped an existing HandlerError: got %+v, want %+v", ee.Handler, he)
	}
}

func TestEventErrorKind_FromMiddleware(t *testing.T) {
	plain := errors.New("blocked")
	ee := FromMiddleware(plain)
	if ee.Middleware == nil || ee.Middleware.Cause != plain {
		t.Fatalf("FromMiddleware() = %+v, want Middleware wrapping %v", ee, plain)
	}
}

func TestEventErrorKind_ErrorMessage(t *testing.T) {
	ee := FromExtraction(NewExtractionError("arg", errors.New("nope")))
	if ee.Error() == "" {
		t.Fatal("Error() returned empty string")
	}

	var nilKind *EventErrorKind
	if nilKind.Error() != "<nil event error>" {
		t.Fatalf("nil.Error() = %q, want sentinel string", nilKind.Error())
	}
	if nilKind.Unwrap() != nil {
		t.Fatal("nil.Unwrap() != nil")
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("set_state", cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("bad config")
	err := NewInitError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}
}
