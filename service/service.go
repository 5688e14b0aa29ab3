// Package service implements the two-stage factory/service model:
// registration-time trees are built mutably, then turned once into an
// immutable, already-wired execution-time tree. This lets the rest of the
// dispatch engine (router/observer/handler) keep registration and
// invocation as two clearly separated phases.
package service

import "context"

// Service performs the actual per-update work. Req/Resp are left generic so
// the same abstraction backs handlers (HandlerRequest -> HandlerResponse),
// observers (Request -> ObserverResponse) and routers alike.
type Service[Req, Resp any] interface {
	Call(ctx context.Context, req Req) (Resp, error)
}

// Factory builds a Service from a registration-time configuration value.
// Cfg is typically the registration record itself (a HandlerObject, an
// Observer, a Router) — ToServiceProvider walks those records and replaces
// each with the Service its Factory produces.
type Factory[Cfg, Req, Resp any] interface {
	NewService(cfg Cfg) (Service[Req, Resp], error)
}

// ServiceFunc adapts a plain function to Service.
type ServiceFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f ServiceFunc[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc[Cfg, Req, Resp any] func(cfg Cfg) (Service[Req, Resp], error)

func (f FactoryFunc[Cfg, Req, Resp]) NewService(cfg Cfg) (Service[Req, Resp], error) {
	return f(cfg)
}

// ToServiceProvider is implemented by any registration-time node that can
// produce its immutable execution-time Service. Router, Observer and
// HandlerObject all implement this so one traversal builds the whole tree.
type ToServiceProvider[Req, Resp any] interface {
	ToServiceProvider() (Service[Req, Resp], error)
}
