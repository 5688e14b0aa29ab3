// Command tgdispatch runs the update-dispatch engine as a standalone
// long-polling daemon: load config, open FSM storage, wire telemetry and
// the FSM janitor, build a root router, and poll until a termination
// signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/dispatcher"
	"github.com/basket/tgdispatch/extract"
	"github.com/basket/tgdispatch/fsm"
	"github.com/basket/tgdispatch/fsm/memstore"
	"github.com/basket/tgdispatch/fsm/sqlitestore"
	"github.com/basket/tgdispatch/handler"
	"github.com/basket/tgdispatch/internal/config"
	"github.com/basket/tgdispatch/internal/eventbus"
	"github.com/basket/tgdispatch/internal/janitor"
	"github.com/basket/tgdispatch/observer"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/router"
	"github.com/basket/tgdispatch/telemetry"
	"github.com/basket/tgdispatch/tgtype"
)

func main() {
	configPath := flag.String("config", "tgdispatch.yaml", "path to the dispatcher config file")
	doctorMode := flag.Bool("doctor", false, "run startup diagnostics and exit")
	jsonOutput := flag.Bool("json", false, "emit -doctor output as JSON")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgErr := config.Load(*configPath)

	if *doctorMode {
		os.Exit(runDoctorCommand(ctx, cfg, *jsonOutput))
	}

	if cfgErr != nil {
		fatalStartup(nil, cfgErr)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("startup phase", "phase", "config_loaded", "config_path", *configPath)

	provider, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		fatalStartup(logger, err)
	}
	defer provider.Shutdown(context.Background())

	store, sweeper, closeStore, err := openFSMStorage(cfg.FSM)
	if err != nil {
		fatalStartup(logger, err)
	}
	defer closeStore()
	logger.Info("startup phase", "phase", "fsm_storage_opened", "backend", cfg.FSM.Backend)

	token, err := cfg.BotToken()
	if err != nil {
		fatalStartup(logger, err)
	}
	b, err := bot.New(token)
	if err != nil {
		fatalStartup(logger, err)
	}
	logger.Info("startup phase", "phase", "bot_ready", "bot_id", b.ID())

	bus := eventbus.NewWithLogger(logger)
	root := buildRootRouter(b.ID(), store, cfg.FSM.Destiny)

	if sweeper == nil {
		if cfg.JanitorInterval() > 0 && cfg.JanitorTTL() > 0 {
			logger.Warn("fsm janitor disabled: backend does not support TTL sweeps", "backend", cfg.FSM.Backend)
		}
	} else if j := janitor.New(sweeper, cfg.JanitorInterval(), cfg.JanitorTTL(), logger); j != nil {
		if err := j.Start(); err != nil {
			fatalStartup(logger, err)
		}
		defer j.Stop()
	}

	d := dispatcher.New(b, root,
		dispatcher.WithPollTimeout(cfg.PollTimeout()),
		dispatcher.WithBackoffOnError(cfg.BackoffOnError()),
		dispatcher.WithShutdownDrain(cfg.ShutdownDrain()),
		dispatcher.WithEventBus(bus),
		dispatcher.WithTracer(provider.Tracer),
		dispatcher.WithMetrics(provider.Metrics),
		dispatcher.WithLogger(logger),
		dispatcher.WithStartupHook(func(context.Context) error {
			logger.Info("dispatcher starting", "allowed_updates", root.ResolveUsedUpdateTypes())
			return nil
		}),
		dispatcher.WithShutdownHook(func(context.Context) error {
			logger.Info("dispatcher stopped")
			return nil
		}),
	)

	logger.Info("startup phase", "phase", "polling")
	if err := d.Run(ctx); err != nil {
		fatalStartup(logger, err)
	}
}

// newLogger picks a text handler for an interactive terminal and a JSON
// handler otherwise, using go-isatty to detect whether stderr is a tty.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// openFSMStorage opens the fsm.Storage backend selected by cfg.Backend. The
// returned janitor.Sweeper is nil for backends that cannot report a TTL
// sweep count (fsm/memstore keeps no timestamps); the returned close func is
// always safe to defer.
func openFSMStorage(cfg config.FSMConfig) (fsm.Storage, janitor.Sweeper, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return memstore.New(), nil, func() error { return nil }, nil
	default:
		store, err := sqlitestore.Open(cfg.DSN)
		if err != nil {
			return nil, nil, func() error { return nil }, err
		}
		return store, store, store.Close, nil
	}
}

// buildRootRouter wires the standing FSM middlewares and a single built-in
// ping handler, demonstrating an echo-via-propagation round trip; real
// deployments register their own handlers on top of or instead of this root.
func buildRootRouter(botID int64, store fsm.Storage, destiny string) *router.Router {
	root := router.New("root")
	root.UseOuter(fsm.UserContextMiddleware())
	root.UseOuter(fsm.FSMContextMiddleware(botID, store, fsm.UserInChat, destiny))

	ping := handler.New("ping", extract.MessageText(), func(ctx context.Context, req reqtype.HandlerRequest, text string) (reqtype.EventReturn, error) {
		if text != "/ping" {
			return reqtype.Skip, nil
		}
		chat := req.Update.Chat()
		if chat == nil {
			return reqtype.Skip, nil
		}
		if _, err := req.Bot.Send(ctx, bot.SendMessage(chat.ID, "pong")); err != nil {
			return reqtype.Skip, err
		}
		return reqtype.Finish, nil
	})
	svc, _ := ping.ToServiceProvider()
	root.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{
		Name:    "ping",
		Service: svc.Call,
	})

	return root
}

func fatalStartup(logger *slog.Logger, err error) {
	if logger != nil {
		logger.Error("startup failure", "error", err)
	} else {
		fmt.Fprintf(os.Stderr, `{"timestamp":%q,"level":"ERROR","msg":"startup failure","error":%q}`+"\n",
			time.Now().UTC().Format(time.RFC3339Nano), err)
	}
	os.Exit(1)
}
