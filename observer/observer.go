// Package observer implements Observer: a per-UpdateKind container of
// handlers plus the outer and inner middleware chains that wrap them.
package observer

import (
	"context"
	"log/slog"

	"github.com/basket/tgdispatch/filter"
	"github.com/basket/tgdispatch/middleware"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgtype"
)

// HandlerEntry is the registration-time record an Observer keeps for each
// registered handler: the Service it runs plus the filters/name needed to
// decide whether it is eligible.
type HandlerEntry struct {
	Name    string
	Filters []filter.Filter
	Service func(ctx context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error)
}

// Observer owns one UpdateKind's handlers (or, for the pseudo-kind "update",
// every update regardless of kind).
type Observer struct {
	Kind          tgtype.UpdateKind
	CommonFilters []filter.Filter
	OuterChain    []middleware.Outer
	InnerChain    []middleware.Inner
	Logger        *slog.Logger
	handlers      []HandlerEntry
}

// New creates an empty observer for kind.
func New(kind tgtype.UpdateKind) *Observer {
	return &Observer{Kind: kind}
}

// Filter appends a filter applied implicitly to every handler registered
// from this point on: filters registered directly on the observer are
// prepended to every subsequent handler's own filters.
func (o *Observer) Filter(f filter.Filter) *Observer {
	o.CommonFilters = append(o.CommonFilters, f)
	return o
}

// UseOuter appends an outer middleware, run once per trigger before any
// filter evaluation.
func (o *Observer) UseOuter(m middleware.Outer) *Observer {
	o.OuterChain = append(o.OuterChain, m)
	return o
}

// UseInner appends an inner middleware, wrapping every matched handler
// call. First registered is outermost.
func (o *Observer) UseInner(m middleware.Inner) *Observer {
	o.InnerChain = append(o.InnerChain, m)
	return o
}

// Register adds a handler entry, keeping registration order.
func (o *Observer) Register(entry HandlerEntry) *Observer {
	o.handlers = append(o.handlers, entry)
	return o
}

// HandlerCount reports how many handlers are registered, used by
// resolve_used_update_types to decide whether this kind is exercised.
func (o *Observer) HandlerCount() int { return len(o.handlers) }

func (o *Observer) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Trigger runs this observer against req: outer middlewares first, then
// each handler in registration order until one reports Finish or Cancel,
// or none match and Skip is reported. A middleware error is logged and
// treated as Skip — for the outer chain this observer as a whole reports
// Skip; for an inner-chain error the next handler is tried.
func (o *Observer) Trigger(ctx context.Context, req reqtype.Request) (reqtype.HandlerResponse, reqtype.EventReturn, error) {
	current, outerResult, err := middleware.RunOuterChain(ctx, o.OuterChain, req)
	if err != nil {
		o.logger().ErrorContext(ctx, "outer middleware error, treating as skip", "kind", o.Kind, "error", err)
		return reqtype.HandlerResponse{Request: current.ToHandlerRequest(), HandlerResult: reqtype.Skip, Err: err}, reqtype.Skip, nil
	}
	if outerResult != reqtype.Finish {
		return reqtype.HandlerResponse{Request: current.ToHandlerRequest(), HandlerResult: outerResult}, outerResult, nil
	}

	for _, h := range o.handlers {
		if !filter.All(o.CommonFilters, h.Filters).Check(ctx, current) {
			continue
		}

		terminal := middleware.Next(h.Service)
		next := middleware.BuildChain(o.InnerChain, terminal)
		resp, err := next(ctx, current.ToHandlerRequest())
		if err != nil {
			o.logger().ErrorContext(ctx, "inner middleware error, trying next handler", "kind", o.Kind, "handler", h.Name, "error", err)
			continue
		}

		switch resp.HandlerResult {
		case reqtype.Finish:
			return resp, reqtype.Finish, nil
		case reqtype.Cancel:
			return resp, reqtype.Cancel, nil
		default:
			continue
		}
	}

	return reqtype.HandlerResponse{Request: current.ToHandlerRequest(), HandlerResult: reqtype.Skip}, reqtype.Skip, nil
}
