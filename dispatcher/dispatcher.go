// Package dispatcher implements the long-poll driver: it owns the Bot, the
// root Router, the resolved allowed-update set, and the poll/backoff/
// shutdown loop. It is the only package that converts a wire
// tgbotapi.Update into the core's tgtype.Update.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/internal/eventbus"
	"github.com/basket/tgdispatch/internal/shared"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/router"
	"github.com/basket/tgdispatch/telemetry"
	"github.com/basket/tgdispatch/tgcontext"
	"github.com/basket/tgdispatch/tgtype"
)

// Poller is the subset of *bot.Bot the long-poll loop needs. Tests
// substitute a fake implementing just this shape instead of a live Bot.
type Poller interface {
	GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// LifecycleFunc is a startup/shutdown observer: a simple, argument-free
// hook run once before polling starts or once after it stops. Pre-bound
// arguments are the caller's responsibility — capture them in a closure
// when registering.
type LifecycleFunc func(ctx context.Context) error

// Dispatcher is the long-poll driver: one Bot, one root Router, and the
// runtime parameters controlling poll timeout, error backoff and shutdown
// drain.
type Dispatcher struct {
	bot    *bot.Bot
	poller Poller
	root   *router.Router

	pollTimeout   time.Duration
	backoffOnErr  time.Duration
	shutdownDrain time.Duration
	limit         int

	startupHooks  []LifecycleFunc
	shutdownHooks []LifecycleFunc

	bus     *eventbus.Bus
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	logger  *slog.Logger

	offset int
}

// New builds a Dispatcher for b routing into root. Opts configure timeouts,
// lifecycle hooks and observability; see Option.
func New(b *bot.Bot, root *router.Router, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		bot:           b,
		poller:        b,
		root:          root,
		pollTimeout:   30 * time.Second,
		backoffOnErr:  5 * time.Second,
		shutdownDrain: 10 * time.Second,
		limit:         100,
		tracer:        nooptrace.NewTracerProvider().Tracer("tgdispatch"),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Offset reports the next getUpdates offset the dispatcher will use,
// primarily for tests asserting offset monotonicity.
func (d *Dispatcher) Offset() int { return d.offset }

// Run executes the full lifecycle: startup observers, then the poll loop
// until ctx is cancelled, then a bounded drain of in-flight per-update
// tasks, then shutdown observers.
func (d *Dispatcher) Run(ctx context.Context) error {
	for _, hook := range d.startupHooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("dispatcher: startup hook failed: %w", err)
		}
	}

	allowed := allowedUpdatesOf(d.root.ResolveUsedUpdateTypes())

	var wg sync.WaitGroup
	d.pollLoop(ctx, allowed, &wg)

	drainCtx, cancel := context.WithTimeout(context.Background(), d.shutdownDrain)
	defer cancel()
	d.waitDrain(drainCtx, &wg)

	for _, hook := range d.shutdownHooks {
		if err := hook(context.Background()); err != nil {
			d.logger.Error("dispatcher: shutdown hook failed", "error", err)
		}
	}
	return nil
}

// pollLoop runs until ctx is cancelled: call getUpdates, back off on error,
// spawn one task per update, advance offset.
func (d *Dispatcher) pollLoop(ctx context.Context, allowed []string, wg *sync.WaitGroup) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cfg := tgbotapi.UpdateConfig{
			Offset:         d.offset,
			Limit:          d.limit,
			Timeout:        int(d.pollTimeout / time.Second),
			AllowedUpdates: allowed,
		}

		updates, err := d.poller.GetUpdates(cfg)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Error("dispatcher: getUpdates failed, backing off", "error", err, "backoff", d.backoffOnErr)
			if d.metrics != nil {
				d.metrics.PollErrors.Add(ctx, 1)
			}
			if d.bus != nil {
				d.bus.Publish(eventbus.TopicPollError, eventbus.PollErrorEvent{Err: err, Backoff: d.backoffOnErr.String()})
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.backoffOnErr):
			}
			continue
		}

		if d.metrics != nil && len(updates) > 0 {
			d.metrics.UpdatesReceived.Add(ctx, int64(len(updates)))
		}

		for _, raw := range updates {
			update := convertUpdate(raw)
			kind := update.Kind()

			if d.bus != nil {
				d.bus.Publish(eventbus.TopicUpdateReceived, eventbus.UpdateReceivedEvent{UpdateID: update.UpdateID, Kind: kind.String()})
			}

			wg.Add(1)
			go func(u *tgtype.Update, k tgtype.UpdateKind) {
				defer wg.Done()
				d.dispatchOne(ctx, u, k)
			}(update, kind)

			if raw.UpdateID >= d.offset {
				d.offset = raw.UpdateID + 1
			}
		}
	}
}

// dispatchOne builds a fresh Context, wraps the update and bot in a
// Request, and propagates it through the root router.
func (d *Dispatcher) dispatchOne(ctx context.Context, update *tgtype.Update, kind tgtype.UpdateKind) {
	traceID := shared.NewTraceID()
	ctx = shared.WithTraceID(ctx, traceID)

	spanCtx, span := telemetry.StartPropagateSpan(ctx, d.tracer, d.root.Name,
		telemetry.AttrUpdateID.Int(update.UpdateID),
		telemetry.AttrUpdateKind.String(kind.String()),
	)
	defer span.End()

	req := reqtype.Request{
		Bot:     d.bot,
		Update:  update,
		Context: tgcontext.New(),
	}

	resp, result, err := d.root.PropagateEvent(spanCtx, kind, req)
	if err != nil {
		d.logger.Error("dispatcher: propagate_event failed", "update_id", update.UpdateID, "trace_id", traceID, "error", err)
	}

	if d.bus != nil {
		d.bus.Publish(eventbus.TopicUpdateFinished, eventbus.UpdateFinishedEvent{
			UpdateID: update.UpdateID,
			Kind:     kind.String(),
			Result:   result.String(),
			Err:      resp.Err,
		})
	}
}

// waitDrain waits for every in-flight dispatchOne goroutine to finish,
// bounded by drainCtx.
func (d *Dispatcher) waitDrain(drainCtx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-drainCtx.Done():
		if errors.Is(drainCtx.Err(), context.DeadlineExceeded) {
			d.logger.Warn("dispatcher: shutdown drain deadline exceeded, some tasks may still be running")
		}
	}
}

// allowedUpdatesOf renders UpdateKinds into the string form getUpdates
// expects.
func allowedUpdatesOf(kinds []tgtype.UpdateKind) []string {
	if len(kinds) == 0 {
		return nil
	}
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}
