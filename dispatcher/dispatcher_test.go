package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/extract"
	"github.com/basket/tgdispatch/handler"
	"github.com/basket/tgdispatch/internal/eventbus"
	"github.com/basket/tgdispatch/internal/shared"
	"github.com/basket/tgdispatch/observer"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/router"
	"github.com/basket/tgdispatch/tgtype"
)

// fakePoller hands out pre-seeded batches of updates, then an empty batch
// forever (simulating a live long-poll that just has nothing new), while
// recording every offset it was called with.
type fakePoller struct {
	mu      sync.Mutex
	batches [][]tgbotapi.Update
	calls   []int
	failN   int // fail the Nth call (1-indexed); 0 = never fail
	callNum int
}

func (f *fakePoller) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callNum++
	f.calls = append(f.calls, cfg.Offset)

	if f.failN != 0 && f.callNum == f.failN {
		return nil, fmt.Errorf("simulated network error")
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	next := f.batches[0]
	f.batches = f.batches[1:]
	return next, nil
}

func (f *fakePoller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callNum
}

func messageUpdate(id int, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: id,
			From:      &tgbotapi.User{ID: 1},
			Chat:      &tgbotapi.Chat{ID: 1, Type: "private"},
			Text:      text,
		},
	}
}

func echoRouter(invocations *int64, mu *sync.Mutex, seen *[]string) *router.Router {
	r := router.New("root")
	h := handler.New("echo", extract.MessageText(), func(ctx context.Context, req reqtype.HandlerRequest, text string) (reqtype.EventReturn, error) {
		atomic.AddInt64(invocations, 1)
		mu.Lock()
		*seen = append(*seen, text)
		mu.Unlock()
		return reqtype.Finish, nil
	})
	svc, _ := h.ToServiceProvider()
	r.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{
		Name:    "echo",
		Service: svc.Call,
	})
	return r
}

func TestDispatcher_DispatchesAndAdvancesOffset(t *testing.T) {
	var invocations int64
	var mu sync.Mutex
	var seen []string
	root := echoRouter(&invocations, &mu, &seen)

	poller := &fakePoller{batches: [][]tgbotapi.Update{
		{messageUpdate(7, "hi")},
	}}

	b := bot.NewForTest(1, "123:abc")
	d := New(b, root, WithPoller(poller), WithBackoffOnError(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := atomic.LoadInt64(&invocations); got != 1 {
		t.Fatalf("handler invocations = %d, want 1", got)
	}
	mu.Lock()
	gotSeen := append([]string(nil), seen...)
	mu.Unlock()
	if len(gotSeen) != 1 || gotSeen[0] != "hi" {
		t.Fatalf("seen = %v, want [hi]", gotSeen)
	}
	if d.Offset() != 8 {
		t.Fatalf("Offset() = %d, want 8 (max id 7 + 1)", d.Offset())
	}
}

func TestDispatcher_AttachesDistinctTraceIDPerUpdate(t *testing.T) {
	var mu sync.Mutex
	var traceIDs []string

	root := router.New("root")
	h := handler.New("capture", extract.Unit(), func(ctx context.Context, req reqtype.HandlerRequest, _ extract.UnitValue) (reqtype.EventReturn, error) {
		mu.Lock()
		traceIDs = append(traceIDs, shared.TraceID(ctx))
		mu.Unlock()
		return reqtype.Finish, nil
	})
	svc, _ := h.ToServiceProvider()
	root.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{Name: "capture", Service: svc.Call})

	poller := &fakePoller{batches: [][]tgbotapi.Update{
		{messageUpdate(1, "a"), messageUpdate(2, "b")},
	}}
	b := bot.NewForTest(1, "123:abc")
	d := New(b, root, WithPoller(poller), WithBackoffOnError(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(traceIDs) != 2 {
		t.Fatalf("captured %d trace ids, want 2", len(traceIDs))
	}
	if traceIDs[0] == "-" || traceIDs[1] == "-" {
		t.Fatalf("expected real trace ids, got %v", traceIDs)
	}
	if traceIDs[0] == traceIDs[1] {
		t.Fatalf("expected distinct trace ids per update, got %q twice", traceIDs[0])
	}
}

func TestDispatcher_BacksOffOnPollError(t *testing.T) {
	var invocations int64
	var mu sync.Mutex
	var seen []string
	root := echoRouter(&invocations, &mu, &seen)

	poller := &fakePoller{failN: 1}
	b := bot.NewForTest(1, "123:abc")

	var polled atomic.Int64
	bus := eventbus.New()
	sub := bus.Subscribe(eventbus.TopicPollError)
	defer bus.Unsubscribe(sub)

	d := New(b, root, WithPoller(poller), WithBackoffOnError(10*time.Millisecond), WithEventBus(bus))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	go func() {
		for range sub.Ch() {
			polled.Add(1)
		}
	}()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if poller.callCount() < 2 {
		t.Fatalf("expected at least 2 getUpdates calls (one failing, one retry), got %d", poller.callCount())
	}
}

func TestDispatcher_StartupAndShutdownHooksRun(t *testing.T) {
	var invocations int64
	var mu sync.Mutex
	var seen []string
	root := echoRouter(&invocations, &mu, &seen)

	poller := &fakePoller{}
	b := bot.NewForTest(1, "123:abc")

	var startupRan, shutdownRan atomic.Bool
	d := New(b, root,
		WithPoller(poller),
		WithStartupHook(func(context.Context) error { startupRan.Store(true); return nil }),
		WithShutdownHook(func(context.Context) error { shutdownRan.Store(true); return nil }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !startupRan.Load() {
		t.Fatal("startup hook did not run")
	}
	if !shutdownRan.Load() {
		t.Fatal("shutdown hook did not run")
	}
}

func TestDispatcher_StartupHookErrorAbortsRun(t *testing.T) {
	root := router.New("root")
	poller := &fakePoller{}
	b := bot.NewForTest(1, "123:abc")

	wantErr := fmt.Errorf("boom")
	d := New(b, root, WithPoller(poller), WithStartupHook(func(context.Context) error { return wantErr }))

	err := d.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want startup failure")
	}
}

func TestDispatcher_AllowedUpdatesResolvedFromRouterTree(t *testing.T) {
	var invocations int64
	var mu sync.Mutex
	var seen []string
	root := echoRouter(&invocations, &mu, &seen)

	poller := &fakePoller{}
	b := bot.NewForTest(1, "123:abc")
	d := New(b, root, WithPoller(poller))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = d.Run(ctx)

	if len(poller.calls) == 0 {
		t.Fatal("expected at least one getUpdates call")
	}
}
