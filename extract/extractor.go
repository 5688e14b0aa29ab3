// Package extract implements the capability-based handler argument
// extraction system: for every handler parameter type T there is a pure
// function producing a T (or an ExtractionError) from (bot, update,
// context).
package extract

import (
	"context"
	"fmt"

	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgcontext"
	"github.com/basket/tgdispatch/tgerrors"
	"github.com/basket/tgdispatch/tgtype"
)

// Extractor produces a T from a HandlerRequest, or an error describing why
// it could not. HandlerObject wraps the error into an
// *tgerrors.ExtractionError before it becomes part of a HandlerResponse.
type Extractor[T any] func(ctx context.Context, req reqtype.HandlerRequest) (T, error)

// Bot extracts the shared Bot handle. It never fails.
func Bot() Extractor[*bot.Bot] {
	return func(_ context.Context, req reqtype.HandlerRequest) (*bot.Bot, error) {
		return req.Bot, nil
	}
}

// UpdateExtractor extracts the raw Update. It never fails.
func UpdateExtractor() Extractor[*tgtype.Update] {
	return func(_ context.Context, req reqtype.HandlerRequest) (*tgtype.Update, error) {
		return req.Update, nil
	}
}

// Ctx extracts the per-update Context itself (as opposed to one value
// stored inside it). It never fails.
func Ctx() Extractor[*tgcontext.Context] {
	return func(_ context.Context, req reqtype.HandlerRequest) (*tgcontext.Context, error) {
		return req.Context, nil
	}
}

// FromUpdate builds family-1 extractors ("From event"): project projects T
// out of the Update, returning ok=false when the current variant does not
// carry T.
func FromUpdate[T any](project func(u *tgtype.Update) (T, bool)) Extractor[T] {
	return func(_ context.Context, req reqtype.HandlerRequest) (T, error) {
		var zero T
		v, ok := project(req.Update)
		if !ok {
			return zero, fmt.Errorf("update variant does not carry this field")
		}
		return v, nil
	}
}

// FromContext builds family-2 extractors ("From context"): T is declared to
// live in context under key; missing key or a type mismatch both fail.
func FromContext[T any](key string) Extractor[T] {
	return func(_ context.Context, req reqtype.HandlerRequest) (T, error) {
		return tgcontext.Get[T](req.Context, key)
	}
}

// Optional adapts e into an extractor that never fails: a failure of e maps
// to a nil pointer instead (family-3 adapter, Option<T>).
func Optional[T any](e Extractor[T]) Extractor[*T] {
	return func(ctx context.Context, req reqtype.HandlerRequest) (*T, error) {
		v, err := e(ctx, req)
		if err != nil {
			return nil, nil
		}
		return &v, nil
	}
}

// ResultOf adapts e into an extractor that never fails at the framework
// layer: success and failure are both folded into a Result value the
// handler inspects itself (family-3 adapter, Result<T, E>).
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the extraction succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

func ResultOf[T any](e Extractor[T]) Extractor[Result[T]] {
	return func(ctx context.Context, req reqtype.HandlerRequest) (Result[T], error) {
		v, err := e(ctx, req)
		return Result[T]{Value: v, Err: err}, nil
	}
}

// Unit is the zero-argument extractor: it always succeeds with an empty
// struct. Used for handlers that take no event-derived arguments.
type UnitValue struct{}

func Unit() Extractor[UnitValue] {
	return func(_ context.Context, _ reqtype.HandlerRequest) (UnitValue, error) {
		return UnitValue{}, nil
	}
}

// Pair combines two extractors positionally, short-circuiting on the first
// error (family-3 tuple adapter, arity 2).
type Pair[A, B any] struct {
	A A
	B B
}

func Tuple2[A, B any](ea Extractor[A], eb Extractor[B]) Extractor[Pair[A, B]] {
	return func(ctx context.Context, req reqtype.HandlerRequest) (Pair[A, B], error) {
		var zero Pair[A, B]
		a, err := ea(ctx, req)
		if err != nil {
			return zero, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return zero, err
		}
		return Pair[A, B]{A: a, B: b}, nil
	}
}

// Triple combines three extractors positionally (arity 3).
type Triple[A, B, C any] struct {
	A A
	B B
	C C
}

func Tuple3[A, B, C any](ea Extractor[A], eb Extractor[B], ec Extractor[C]) Extractor[Triple[A, B, C]] {
	return func(ctx context.Context, req reqtype.HandlerRequest) (Triple[A, B, C], error) {
		var zero Triple[A, B, C]
		a, err := ea(ctx, req)
		if err != nil {
			return zero, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return zero, err
		}
		c, err := ec(ctx, req)
		if err != nil {
			return zero, err
		}
		return Triple[A, B, C]{A: a, B: b, C: c}, nil
	}
}

// AsExtractionError wraps a raw extractor error as the taxonomy's
// ExtractionError, naming the parameter that failed.
func AsExtractionError(param string, err error) *tgerrors.ExtractionError {
	return tgerrors.NewExtractionError(param, err)
}

// MessageText is a ready-made family-1 extractor for the common case of
// reading a message's text out of whichever Message-bearing variant is
// present (Message or ChannelPost).
func MessageText() Extractor[string] {
	return FromUpdate(func(u *tgtype.Update) (string, bool) {
		switch {
		case u.Message != nil:
			return u.Message.Text, true
		case u.ChannelPost != nil:
			return u.ChannelPost.Text, true
		default:
			return "", false
		}
	})
}

// FromUser is a ready-made extractor for the update's originating user.
func FromUser() Extractor[*tgtype.User] {
	return func(_ context.Context, req reqtype.HandlerRequest) (*tgtype.User, error) {
		u := req.Update.FromUser()
		if u == nil {
			return nil, fmt.Errorf("update has no from_user")
		}
		return u, nil
	}
}

// FromChat is a ready-made extractor for the update's chat.
func FromChat() Extractor[*tgtype.Chat] {
	return func(_ context.Context, req reqtype.HandlerRequest) (*tgtype.Chat, error) {
		c := req.Update.Chat()
		if c == nil {
			return nil, fmt.Errorf("update has no chat")
		}
		return c, nil
	}
}
