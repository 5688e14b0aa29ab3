// Package reqtype holds the per-update envelope types that flow through
// filters, outer middlewares, inner middlewares and handlers.
package reqtype

import (
	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/tgcontext"
	"github.com/basket/tgdispatch/tgtype"
)

// Request is handed to outer middlewares, filters, and observers. It is the
// same three fields as HandlerRequest but a distinct type: the boundary
// between "has this passed filtering yet" and "is being handled" is worth
// keeping in the type system, even though the conversion between them is
// just a field copy.
type Request struct {
	Bot     *bot.Bot
	Update  *tgtype.Update
	Context *tgcontext.Context
}

// HandlerRequest is handed to inner middlewares and to the extractor-driven
// handler call itself.
type HandlerRequest struct {
	Bot     *bot.Bot
	Update  *tgtype.Update
	Context *tgcontext.Context
}

// ToHandlerRequest converts a Request into a HandlerRequest. The conversion
// is identity over the three fields.
func (r Request) ToHandlerRequest() HandlerRequest {
	return HandlerRequest{Bot: r.Bot, Update: r.Update, Context: r.Context}
}

// ToRequest converts a HandlerRequest back into a Request. Inner
// middlewares that need to re-enter filter-shaped helpers use this.
func (r HandlerRequest) ToRequest() Request {
	return Request{Bot: r.Bot, Update: r.Update, Context: r.Context}
}

// EventReturn controls propagation after a handler or observer runs.
type EventReturn int

const (
	// Finish stops handler iteration in the current observer and stops
	// further router descent.
	Finish EventReturn = iota
	// Skip advances to the next handler/child.
	Skip
	// Cancel stops all further propagation of the update.
	Cancel
)

func (e EventReturn) String() string {
	switch e {
	case Finish:
		return "Finish"
	case Skip:
		return "Skip"
	case Cancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// HandlerResponse is the result of one handler invocation.
type HandlerResponse struct {
	Request       HandlerRequest
	HandlerResult EventReturn
	Err           error
}
