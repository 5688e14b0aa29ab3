// Package filter implements the async predicate contract and combinators
// used to decide whether a handler is eligible for an update.
package filter

import (
	"context"

	"github.com/basket/tgdispatch/reqtype"
)

// Filter is an async predicate over a Request. Implementations may mutate
// req.Context (e.g. to stash a parsed command argument for the handler to
// read back) but must never panic — an internal failure is represented as
// false, not a thrown error.
type Filter interface {
	Check(ctx context.Context, req reqtype.Request) bool
}

// Func adapts a plain function to Filter.
type Func func(ctx context.Context, req reqtype.Request) bool

func (f Func) Check(ctx context.Context, req reqtype.Request) bool { return f(ctx, req) }

// And passes iff every filter passes, evaluated in order; it returns false
// on the first failure without evaluating the rest.
func And(filters ...Filter) Filter {
	fs := append([]Filter(nil), filters...)
	return Func(func(ctx context.Context, req reqtype.Request) bool {
		for _, f := range fs {
			if !f.Check(ctx, req) {
				return false
			}
		}
		return true
	})
}

// Or passes iff any filter passes, evaluated in order; it returns true on
// the first success without evaluating the rest.
func Or(filters ...Filter) Filter {
	fs := append([]Filter(nil), filters...)
	return Func(func(ctx context.Context, req reqtype.Request) bool {
		for _, f := range fs {
			if f.Check(ctx, req) {
				return true
			}
		}
		return false
	})
}

// Invert is the logical negation of f.
func Invert(f Filter) Filter {
	return Func(func(ctx context.Context, req reqtype.Request) bool {
		return !f.Check(ctx, req)
	})
}

// All combines observer-common filters with a handler's own filters,
// short-circuit-ANDed together: common filters apply implicitly to every
// handler, prepended ahead of its own.
func All(common, own []Filter) Filter {
	combined := make([]Filter, 0, len(common)+len(own))
	combined = append(combined, common...)
	combined = append(combined, own...)
	return And(combined...)
}
