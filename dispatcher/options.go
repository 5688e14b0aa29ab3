package dispatcher

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/basket/tgdispatch/internal/eventbus"
	"github.com/basket/tgdispatch/telemetry"
)

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithPoller overrides the Poller used for getUpdates, for tests that
// substitute a fake instead of a live *bot.Bot.
func WithPoller(p Poller) Option {
	return func(d *Dispatcher) { d.poller = p }
}

// WithPollTimeout sets the long-poll timeout sent with every getUpdates
// call.
func WithPollTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.pollTimeout = timeout }
}

// WithBackoffOnError sets the sleep before retrying after a getUpdates
// network error.
func WithBackoffOnError(backoff time.Duration) Option {
	return func(d *Dispatcher) { d.backoffOnErr = backoff }
}

// WithShutdownDrain bounds how long Run waits for outstanding per-update
// tasks during graceful shutdown.
func WithShutdownDrain(drain time.Duration) Option {
	return func(d *Dispatcher) { d.shutdownDrain = drain }
}

// WithLimit sets the max number of updates requested per getUpdates call.
func WithLimit(limit int) Option {
	return func(d *Dispatcher) { d.limit = limit }
}

// WithStartupHook registers a hook run once before the poll loop starts.
// Hooks run in registration order; the first error aborts Run.
func WithStartupHook(fn LifecycleFunc) Option {
	return func(d *Dispatcher) { d.startupHooks = append(d.startupHooks, fn) }
}

// WithShutdownHook registers a hook run once after the poll loop and drain
// finish. Hooks run in registration order; errors are logged, not fatal.
func WithShutdownHook(fn LifecycleFunc) Option {
	return func(d *Dispatcher) { d.shutdownHooks = append(d.shutdownHooks, fn) }
}

// WithEventBus attaches an eventbus.Bus that lifecycle events are
// published to.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

// WithTracer overrides the tracer used for propagate_event spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = tracer }
}

// WithMetrics attaches the dispatch-engine metric instruments, incrementing
// UpdatesReceived/PollErrors as the poll loop runs.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = metrics }
}

// WithLogger overrides the logger used for poll errors and shutdown
// diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}
