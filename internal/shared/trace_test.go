package shared

import (
	"context"
	"testing"
)

func TestTraceID_DefaultIsDash(t *testing.T) {
	ctx := context.Background()
	if got := TraceID(ctx); got != "-" {
		t.Fatalf("expected \"-\", got %q", got)
	}
}

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc-123")
	if got := TraceID(ctx); got != "abc-123" {
		t.Fatalf("expected abc-123, got %q", got)
	}
}

func TestTraceID_EmptyValueFallsBackToDash(t *testing.T) {
	ctx := WithTraceID(context.Background(), "")
	if got := TraceID(ctx); got != "-" {
		t.Fatalf("expected \"-\" for an empty trace id, got %q", got)
	}
}

func TestNewTraceID_ProducesDistinctNonEmptyIDs(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()
	if a == "" || b == "" {
		t.Fatalf("expected non-empty trace ids, got %q and %q", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct trace ids, got %q twice", a)
	}
}
