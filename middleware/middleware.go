// Package middleware implements the two distinct interceptor kinds (spec
// §4.G): outer middleware, run once per observer before filtering, and
// inner middleware, run once per matched handler, wrapping the handler
// call itself.
package middleware

import (
	"context"

	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgerrors"
)

// Outer runs once per observer trigger, before any filter is evaluated. It
// may mutate the Context, replace Request fields, or short-circuit by
// returning Skip/Cancel.
type Outer interface {
	Call(ctx context.Context, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error)
}

// OuterFunc adapts a plain function to Outer.
type OuterFunc func(ctx context.Context, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error)

func (f OuterFunc) Call(ctx context.Context, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error) {
	return f(ctx, req)
}

// Next is what an Inner middleware calls to continue the chain. It must be
// invoked zero or one times.
type Next func(ctx context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error)

// Inner wraps a single handler invocation. It nests in registration order:
// the first-registered middleware is outermost.
type Inner interface {
	Call(ctx context.Context, req reqtype.HandlerRequest, next Next) (reqtype.HandlerResponse, error)
}

// InnerFunc adapts a plain function to Inner.
type InnerFunc func(ctx context.Context, req reqtype.HandlerRequest, next Next) (reqtype.HandlerResponse, error)

func (f InnerFunc) Call(ctx context.Context, req reqtype.HandlerRequest, next Next) (reqtype.HandlerResponse, error) {
	return f(ctx, req, next)
}

// BuildChain composes [m1, m2, ..., mN] and a terminal handler call into a
// single Next such that m1 sees a Next that runs the rest of the chain,
// ending at handler.
func BuildChain(chain []Inner, handler Next) Next {
	next := handler
	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		wrapped := next
		next = func(ctx context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
			return mw.Call(ctx, req, wrapped)
		}
	}
	return next
}

// RunOuterChain runs outer middlewares in registration order. It stops at
// the first one that returns Skip or Cancel.
func RunOuterChain(ctx context.Context, chain []Outer, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error) {
	current := req
	for _, mw := range chain {
		updated, result, err := mw.Call(ctx, current)
		if err != nil {
			return updated, reqtype.Skip, tgerrors.FromMiddleware(err)
		}
		current = updated
		if result != reqtype.Finish {
			return current, result, nil
		}
	}
	return current, reqtype.Finish, nil
}
