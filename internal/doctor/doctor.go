// Package doctor runs startup diagnostic checks for the dispatcher daemon:
// config loaded, bot token reachable, FSM storage opens and responds. A
// list of independent check functions, each producing a CheckResult, run
// and reported together.
package doctor

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/basket/tgdispatch/fsm/memstore"
	"github.com/basket/tgdispatch/fsm/sqlitestore"
	"github.com/basket/tgdispatch/internal/config"
)

// CheckResult is the outcome of one diagnostic check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "PASS", "FAIL", "WARN", "SKIP"
	Message string `json:"message"`
}

// SystemInfo records the runtime environment the checks ran under.
type SystemInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	Go   string `json:"go_version"`
}

// Diagnosis is the full result of a Run.
type Diagnosis struct {
	Timestamp time.Time     `json:"timestamp"`
	System    SystemInfo    `json:"system"`
	Results   []CheckResult `json:"results"`
}

// OK reports whether every check passed (no FAIL among the results).
func (d Diagnosis) OK() bool {
	for _, r := range d.Results {
		if r.Status == "FAIL" {
			return false
		}
	}
	return true
}

// Run executes every diagnostic check against cfg and returns their
// combined results.
func Run(ctx context.Context, cfg *config.Config) Diagnosis {
	d := Diagnosis{
		Timestamp: time.Now().UTC(),
		System: SystemInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
			Go:   runtime.Version(),
		},
	}

	checks := []func(context.Context, *config.Config) CheckResult{
		checkConfig,
		checkBotToken,
		checkFSMStorage,
		checkNetwork,
	}
	for _, check := range checks {
		d.Results = append(d.Results, check(ctx, cfg))
	}
	return d
}

func checkConfig(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "config", Status: "FAIL", Message: "configuration not loaded"}
	}
	return CheckResult{Name: "config", Status: "PASS", Message: fmt.Sprintf("log_level=%s poll_timeout=%s", cfg.LogLevel, cfg.PollTimeout())}
}

func checkBotToken(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "bot_token", Status: "SKIP", Message: "config missing"}
	}
	if _, err := cfg.BotToken(); err != nil {
		return CheckResult{Name: "bot_token", Status: "FAIL", Message: err.Error()}
	}
	return CheckResult{Name: "bot_token", Status: "PASS", Message: fmt.Sprintf("%s is set", cfg.BotTokenEnv)}
}

func checkFSMStorage(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "fsm_storage", Status: "SKIP", Message: "config missing"}
	}
	if cfg.FSM.Backend == "memory" {
		_ = memstore.New()
		return CheckResult{Name: "fsm_storage", Status: "PASS", Message: "backend=memory (process-local, nothing to open)"}
	}
	store, err := sqlitestore.Open(cfg.FSM.DSN)
	if err != nil {
		return CheckResult{Name: "fsm_storage", Status: "FAIL", Message: err.Error()}
	}
	defer store.Close()
	return CheckResult{Name: "fsm_storage", Status: "PASS", Message: fmt.Sprintf("backend=sqlite opened %s", cfg.FSM.DSN)}
}

func checkNetwork(ctx context.Context, _ *config.Config) CheckResult {
	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", "api.telegram.org:443")
	if err != nil {
		return CheckResult{Name: "network", Status: "WARN", Message: fmt.Sprintf("cannot reach api.telegram.org: %v", err)}
	}
	_ = conn.Close()
	return CheckResult{Name: "network", Status: "PASS", Message: "api.telegram.org reachable"}
}
