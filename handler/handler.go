// Package handler implements HandlerObject: binding an async function, its
// argument extractors and its own filters into a single Service callable
// by an Observer.
package handler

import (
	"context"

	"github.com/basket/tgdispatch/filter"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/service"
	"github.com/basket/tgdispatch/tgerrors"
)

// Func is the user-supplied handler body. arg is whatever the extractor
// chain produced (typically a struct of positional values built with
// extract.Tuple2/Tuple3, or a single extracted value).
type Func[A any] func(ctx context.Context, req reqtype.HandlerRequest, arg A) (reqtype.EventReturn, error)

// Extractor mirrors extract.Extractor without importing that package,
// keeping handler decoupled from any one extractor family.
type Extractor[A any] func(ctx context.Context, req reqtype.HandlerRequest) (A, error)

// Object is a registration-time handler: a function plus its extractor and
// its own filters, evaluated on top of whatever common filters the owning
// Observer prepends.
type Object[A any] struct {
	Name    string
	Extract Extractor[A]
	Filters []filter.Filter
	Call    Func[A]
}

// New builds an Object from its parts.
func New[A any](name string, extract Extractor[A], fn Func[A], filters ...filter.Filter) *Object[A] {
	return &Object[A]{Name: name, Extract: extract, Filters: filters, Call: fn}
}

// ToServiceProvider turns this registration record into the Service the
// Observer actually invokes.
func (o *Object[A]) ToServiceProvider() (service.Service[reqtype.HandlerRequest, reqtype.HandlerResponse], error) {
	return service.ServiceFunc[reqtype.HandlerRequest, reqtype.HandlerResponse](
		func(ctx context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
			arg, err := o.Extract(ctx, req)
			if err != nil {
				wrapped := tgerrors.FromExtraction(tgerrors.NewExtractionError(o.Name, err))
				return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Skip, Err: wrapped}, nil
			}

			result, err := o.Call(ctx, req, arg)
			if err != nil {
				wrapped := tgerrors.FromHandler(err)
				return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Skip, Err: wrapped}, nil
			}

			return reqtype.HandlerResponse{Request: req, HandlerResult: result, Err: nil}, nil
		}), nil
}

// CheckFilters runs the observer's common filters followed by this
// handler's own filters, short-circuiting on the first failure (spec
// §4.F).
func (o *Object[A]) CheckFilters(ctx context.Context, common []filter.Filter, req reqtype.Request) bool {
	return filter.All(common, o.Filters).Check(ctx, req)
}
