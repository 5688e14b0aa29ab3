// Package bot wraps go-telegram-bot-api into the opaque Bot handle the
// dispatch core depends on: an id, a debug-safe token, and a
// send(method) -> result capability. Concrete Telegram request/response
// shapes stay out of the core — Method is a name plus a flat parameter
// map, not a typed Chattable.
package bot

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/basket/tgdispatch/internal/shared"
)

// Method is anything that can be sent through a Bot: a Telegram API method
// name plus its parameters, serialized as Telegram's HTTP API expects
// (flat string values). Request/response bodies are not modeled here — the
// core treats them as opaque.
type Method interface {
	Name() string
	Params() (map[string]string, error)
}

// Result is the raw, still-undecoded payload of a successful API call.
// Callers that know the concrete response shape can json.Unmarshal it.
type Result struct {
	Raw json.RawMessage
}

// Decode unmarshals the raw result into v.
func (r *Result) Decode(v any) error {
	if r == nil || len(r.Raw) == 0 {
		return fmt.Errorf("bot: empty result")
	}
	return json.Unmarshal(r.Raw, v)
}

// Bot is a shared, immutable-after-construction handle to one Telegram bot
// account. It is cloned by reference (not by value) across every task of
// every update: all fields are read-only post-construction, and Send has no
// internal mutable state beyond the underlying HTTP client's connection
// pool, so concurrent use from many goroutines is safe.
type Bot struct {
	id     int64
	token  string
	client *tgbotapi.BotAPI
}

// New constructs a Bot by calling Telegram's getMe to resolve the bot id.
func New(token string) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: init failed: %w", err)
	}
	return &Bot{
		id:     client.Self.ID,
		token:  token,
		client: client,
	}, nil
}

// NewForTest builds a Bot with no underlying HTTP client, for packages
// that need a *Bot to populate a Request without making a network call
// (dispatcher, fsm and router tests). Send/RawClient are unusable on the
// result.
func NewForTest(id int64, token string) *Bot {
	return &Bot{id: id, token: token}
}

// ID returns the numeric Telegram bot id.
func (b *Bot) ID() int64 { return b.id }

// Token returns the raw bot token. Only the transport layer (this package,
// and whatever constructs long-poll requests) should ever call this.
func (b *Bot) Token() string { return b.token }

// String returns a debug-safe, redacted representation — never the raw
// token. Used by %v/%s formatting and anywhere a Bot ends up in a log line.
func (b *Bot) String() string {
	return fmt.Sprintf("Bot{id=%d, token=%s}", b.id, shared.RedactToken(b.token))
}

// LogValue lets slog print Bot without ever touching the raw token.
func (b *Bot) LogValue() string { return b.String() }

// Send invokes a single Telegram API method and returns its raw result.
// This is the only capability the dispatch core (handlers, middlewares,
// filters) may use to reach Telegram — everything else about the HTTP
// client (retries, multipart uploads, rate limiting) is this package's
// concern, not the core's.
func (b *Bot) Send(ctx context.Context, m Method) (*Result, error) {
	params, err := m.Params()
	if err != nil {
		return nil, fmt.Errorf("bot: build params for %s: %w", m.Name(), err)
	}

	type apiCaller interface {
		MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	}
	caller := apiCaller(b.client)

	resp, err := caller.MakeRequest(m.Name(), tgbotapi.Params(params))
	if err != nil {
		return nil, fmt.Errorf("bot: send %s: %w", m.Name(), err)
	}
	if !resp.Ok {
		return nil, fmt.Errorf("bot: %s failed: %s (code %d)", m.Name(), resp.Description, resp.ErrorCode)
	}
	return &Result{Raw: resp.Result}, nil
}

// RawClient exposes the underlying tgbotapi client. Only the dispatcher
// package (for GetUpdates) is expected to use it — handlers and middlewares
// should go through Send/Method so they stay testable against a fake Bot.
func (b *Bot) RawClient() *tgbotapi.BotAPI { return b.client }

// GetUpdates issues one long-poll request. It is the only place in this
// package that returns a wire tgbotapi.Update — converting that into the
// core's opaque tgtype.Update is the dispatcher package's job.
func (b *Bot) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	return b.client.GetUpdates(cfg)
}
