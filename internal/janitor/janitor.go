// Package janitor runs a periodic sweep that removes FSM storage rows
// whose state and data are both empty, past a configurable TTL, so a
// long-running bot does not accumulate unbounded per-user rows. Built on
// github.com/robfig/cron/v3.
package janitor

import (
	"context"
	"log/slog"
	"time"

	cronlib "github.com/robfig/cron/v3"
)

// Sweeper is implemented by any FSM storage backend that can report how
// many rows it removed past a TTL cutoff (fsm/sqlitestore.Store.SweepExpired
// satisfies this without importing that package here, keeping janitor
// storage-backend-agnostic).
type Sweeper interface {
	SweepExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// Janitor periodically sweeps a Sweeper for expired FSM rows.
type Janitor struct {
	cron     *cronlib.Cron
	sweeper  Sweeper
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// New builds a Janitor that sweeps sweeper every interval, removing rows
// older than ttl. Both must be positive or New returns nil (the caller is
// expected to skip starting a disabled janitor, per config.JanitorInterval
// /config.JanitorTTL returning 0 when unset).
func New(sweeper Sweeper, interval, ttl time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 || ttl <= 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		cron:     cronlib.New(),
		sweeper:  sweeper,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Start schedules the sweep at the configured interval using robfig/cron's
// "@every" spec and begins running it in the background. It returns an
// error only if the generated cron spec fails to parse, which should never
// happen for a positive interval.
func (j *Janitor) Start() error {
	spec := "@every " + j.interval.String()
	_, err := j.cron.AddFunc(spec, j.sweep)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("fsm janitor started", "interval", j.interval, "ttl", j.ttl)
	return nil
}

// Stop cancels the scheduled sweep and waits for any in-flight run to
// finish, bounded by the context passed to robfig/cron's Stop context.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("fsm janitor stopped")
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.ttl)
	n, err := j.sweeper.SweepExpired(ctx, cutoff)
	if err != nil {
		j.logger.Error("fsm janitor sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("fsm janitor swept expired rows", "removed", n, "cutoff", cutoff)
	}
}
