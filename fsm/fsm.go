// Package fsm implements the finite-state-machine core: key derivation via
// a Strategy, a backend-agnostic Storage contract, a typed Context handle,
// a StateFilter, and the FSMContext outer middleware that wires all of it
// into the per-update Context.
package fsm

import (
	"context"
	"fmt"

	"github.com/basket/tgdispatch/filter"
	"github.com/basket/tgdispatch/middleware"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgcontext"
)

// Context key names used to pass FSM state between the FSMContext
// middleware and handler-level extractors.
const (
	KeyEventUser = "event_user"
	KeyEventChat = "event_chat"
	KeyFSMStorage = "fsm_storage"
	KeyFSMContext = "fsm_context"
	KeyFSMState   = "fsm_state"
)

// Strategy determines how (chat_id, user_id) is reduced into a StorageKey.
type Strategy int

const (
	// UserInChat keys by both chat and user — the default, per-user-per-chat
	// state.
	UserInChat Strategy = iota
	// Chat keys by chat alone (the same state for every user in the chat).
	Chat
	// User keys by user alone within the originating chat's namespace.
	User
	// GlobalUser keys by user across every chat.
	GlobalUser
)

// Apply reduces (chatID, userID) per the strategy. It is pure, idempotent
// and invariant across retries.
func (s Strategy) Apply(chatID, userID int64) (int64, int64) {
	switch s {
	case Chat:
		return chatID, chatID
	case User:
		return userID, userID
	case GlobalUser:
		return 0, userID
	default:
		return chatID, userID
	}
}

// StorageKey identifies one FSM record.
type StorageKey struct {
	BotID   int64
	ChatID  int64
	UserID  int64
	Destiny string
}

// DefaultDestiny is the namespace used when no explicit destiny is given.
const DefaultDestiny = "default"

// Storage is the backend contract. Implementations must provide per-call
// atomicity; cross-call atomicity is not required.
type Storage interface {
	SetState(ctx context.Context, key StorageKey, state string) error
	GetState(ctx context.Context, key StorageKey) (string, bool, error)
	RemoveState(ctx context.Context, key StorageKey) error

	SetData(ctx context.Context, key StorageKey, data map[string]any) error
	GetData(ctx context.Context, key StorageKey) (map[string]any, error)
	RemoveData(ctx context.Context, key StorageKey) error

	SetValue(ctx context.Context, key StorageKey, name string, value any) error
	GetValue(ctx context.Context, key StorageKey, name string) (any, bool, error)
	RemoveValue(ctx context.Context, key StorageKey, name string) error
}

// FSMContext is the handler-facing handle: a Storage bound to one
// StorageKey. Handlers obtain it via the fsm_context extractor.
type FSMContext struct {
	storage Storage
	key     StorageKey
}

// NewFSMContext wraps storage for a single key.
func NewFSMContext(storage Storage, key StorageKey) *FSMContext {
	return &FSMContext{storage: storage, key: key}
}

func (c *FSMContext) Key() StorageKey { return c.key }

func (c *FSMContext) SetState(ctx context.Context, state string) error {
	return c.storage.SetState(ctx, c.key, state)
}

func (c *FSMContext) GetState(ctx context.Context) (string, bool, error) {
	return c.storage.GetState(ctx, c.key)
}

// Finish clears the current state, returning the FSM to its stateless
// default.
func (c *FSMContext) Finish(ctx context.Context) error {
	return c.storage.RemoveState(ctx, c.key)
}

func (c *FSMContext) SetData(ctx context.Context, data map[string]any) error {
	return c.storage.SetData(ctx, c.key, data)
}

func (c *FSMContext) GetData(ctx context.Context) (map[string]any, error) {
	return c.storage.GetData(ctx, c.key)
}

func (c *FSMContext) SetValue(ctx context.Context, name string, value any) error {
	return c.storage.SetValue(ctx, c.key, name, value)
}

func (c *FSMContext) GetValue(ctx context.Context, name string) (any, bool, error) {
	return c.storage.GetValue(ctx, c.key, name)
}

// GetTypedValue reads a value and asserts it to T, surfacing a mismatch as
// an error rather than panicking.
func GetTypedValue[T any](ctx context.Context, c *FSMContext, name string) (T, bool, error) {
	var zero T
	raw, ok, err := c.GetValue(ctx, name)
	if err != nil || !ok {
		return zero, ok, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false, fmt.Errorf("fsm value %q has wrong type", name)
	}
	return v, true, nil
}

// StateFilter evaluates a StateFilterKind against the fsm_state context
// value.
type StateFilterKind int

const (
	StateAny StateFilterKind = iota
	StateNone
	StateEquals
	StateOneOf
)

// NewStateFilter builds a filter.Filter over fsm_state. name is used by
// StateEquals; set by StateOneOf.
func NewStateFilter(kind StateFilterKind, name string, set []string) filter.Filter {
	return filter.Func(func(_ context.Context, req reqtype.Request) bool {
		state, err := tgcontext.Get[string](req.Context, KeyFSMState)
		if err != nil {
			state = ""
		}
		switch kind {
		case StateAny:
			return true
		case StateNone:
			return state == ""
		case StateEquals:
			return state == name
		case StateOneOf:
			for _, s := range set {
				if s == state {
					return true
				}
			}
			return false
		default:
			return false
		}
	})
}

// EventUserChat is what a separately-provided UserContext middleware seeds
// into the per-update Context under event_user/event_chat before
// FSMContextMiddleware runs.
type EventUserChat struct {
	ChatID int64
	UserID int64
}

// UserContextMiddleware derives (chat_id, user_id) from the update itself
// and seeds event_user/event_chat, satisfying FSMContextMiddleware's
// dependency without requiring every caller to wire their own.
func UserContextMiddleware() middleware.Outer {
	return middleware.OuterFunc(func(_ context.Context, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error) {
		chat := req.Update.Chat()
		user := req.Update.FromUser()
		if chat == nil || user == nil {
			return req, reqtype.Finish, nil
		}
		req.Context.Insert(KeyEventUser, user.ID)
		req.Context.Insert(KeyEventChat, chat.ID)
		return req, reqtype.Finish, nil
	})
}

// FSMContextMiddleware reads event_user/event_chat from context, applies
// strategy, builds a StorageKey, wraps storage into an FSMContext, and
// inserts fsm_storage/fsm_context (and fsm_state, if present) into the
// per-update Context.
func FSMContextMiddleware(botID int64, storage Storage, strategy Strategy, destiny string) middleware.Outer {
	if destiny == "" {
		destiny = DefaultDestiny
	}
	return middleware.OuterFunc(func(ctx context.Context, req reqtype.Request) (reqtype.Request, reqtype.EventReturn, error) {
		chatID, chatOK := tgcontext.Get[int64](req.Context, KeyEventChat)
		userID, userOK := tgcontext.Get[int64](req.Context, KeyEventUser)
		if chatOK != nil || userOK != nil {
			return req, reqtype.Finish, nil
		}

		redChat, redUser := strategy.Apply(chatID, userID)
		key := StorageKey{BotID: botID, ChatID: redChat, UserID: redUser, Destiny: destiny}

		fsmCtx := NewFSMContext(storage, key)
		req.Context.Insert(KeyFSMStorage, storage)
		req.Context.Insert(KeyFSMContext, fsmCtx)

		if state, ok, err := storage.GetState(ctx, key); err == nil && ok {
			req.Context.Insert(KeyFSMState, state)
		}

		return req, reqtype.Finish, nil
	})
}
