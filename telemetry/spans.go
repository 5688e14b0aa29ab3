package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Standard attribute keys for dispatch-engine spans.
var (
	AttrUpdateID   = attribute.Key("tgdispatch.update.id")
	AttrUpdateKind = attribute.Key("tgdispatch.update.kind")
	AttrRouterName = attribute.Key("tgdispatch.router.name")
	AttrHandler    = attribute.Key("tgdispatch.handler.name")
	AttrResult     = attribute.Key("tgdispatch.event_return")
)

// StartPropagateSpan starts the span wrapping one Router.PropagateEvent
// call.
func StartPropagateSpan(ctx context.Context, tracer trace.Tracer, routerName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{AttrRouterName.String(routerName)}, attrs...)
	return tracer.Start(ctx, "router.propagate_event",
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartHandlerSpan starts the span wrapping one handler call.
func StartHandlerSpan(ctx context.Context, tracer trace.Tracer, handlerName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{AttrHandler.String(handlerName)}, attrs...)
	return tracer.Start(ctx, "handler.call",
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}
