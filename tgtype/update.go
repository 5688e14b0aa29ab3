// Package tgtype models Telegram updates as an opaque tagged union. It owns
// no transport code — the dispatcher package is the only place that knows
// how to build an Update from a wire response.
package tgtype

// UpdateKind is the tagged variant discriminant of an Update.
type UpdateKind int

const (
	KindUnknown UpdateKind = iota
	KindMessage
	KindEditedMessage
	KindChannelPost
	KindEditedChannelPost
	KindMessageReaction
	KindMessageReactionCount
	KindInlineQuery
	KindChosenInlineResult
	KindCallbackQuery
	KindShippingQuery
	KindPreCheckoutQuery
	KindPoll
	KindPollAnswer
	KindMyChatMember
	KindChatMember
	KindChatJoinRequest
	KindChatBoost
	KindRemovedChatBoost
)

func (k UpdateKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindEditedMessage:
		return "edited_message"
	case KindChannelPost:
		return "channel_post"
	case KindEditedChannelPost:
		return "edited_channel_post"
	case KindMessageReaction:
		return "message_reaction"
	case KindMessageReactionCount:
		return "message_reaction_count"
	case KindInlineQuery:
		return "inline_query"
	case KindChosenInlineResult:
		return "chosen_inline_result"
	case KindCallbackQuery:
		return "callback_query"
	case KindShippingQuery:
		return "shipping_query"
	case KindPreCheckoutQuery:
		return "pre_checkout_query"
	case KindPoll:
		return "poll"
	case KindPollAnswer:
		return "poll_answer"
	case KindMyChatMember:
		return "my_chat_member"
	case KindChatMember:
		return "chat_member"
	case KindChatJoinRequest:
		return "chat_join_request"
	case KindChatBoost:
		return "chat_boost"
	case KindRemovedChatBoost:
		return "removed_chat_boost"
	default:
		return "unknown"
	}
}

// AllKinds is the declared precedence order used both for variant
// classification (see Update.Kind) and for allowed_updates resolution.
var AllKinds = []UpdateKind{
	KindMessage,
	KindEditedMessage,
	KindChannelPost,
	KindEditedChannelPost,
	KindMessageReaction,
	KindMessageReactionCount,
	KindInlineQuery,
	KindChosenInlineResult,
	KindCallbackQuery,
	KindShippingQuery,
	KindPreCheckoutQuery,
	KindPoll,
	KindPollAnswer,
	KindMyChatMember,
	KindChatMember,
	KindChatJoinRequest,
	KindChatBoost,
	KindRemovedChatBoost,
}

// Update is a tagged variant carrying exactly one populated payload field.
// Field declaration order is also the fixed precedence order used when a
// server bug populates more than one field.
type Update struct {
	UpdateID int

	Message              *Message
	EditedMessage        *Message
	ChannelPost          *Message
	EditedChannelPost    *Message
	MessageReaction      *MessageReactionUpdated
	MessageReactionCount *MessageReactionCountUpdated
	InlineQuery          *InlineQuery
	ChosenInlineResult   *ChosenInlineResult
	CallbackQuery        *CallbackQuery
	ShippingQuery        *ShippingQuery
	PreCheckoutQuery     *PreCheckoutQuery
	Poll                 *Poll
	PollAnswer           *PollAnswer
	MyChatMember         *ChatMemberUpdated
	ChatMember           *ChatMemberUpdated
	ChatJoinRequest      *ChatJoinRequest
	ChatBoost            *ChatBoostUpdated
	RemovedChatBoost     *ChatBoostRemoved
}

// Kind classifies the update by inspecting which variant field is
// populated, in the fixed declaration order.
func (u *Update) Kind() UpdateKind {
	switch {
	case u.Message != nil:
		return KindMessage
	case u.EditedMessage != nil:
		return KindEditedMessage
	case u.ChannelPost != nil:
		return KindChannelPost
	case u.EditedChannelPost != nil:
		return KindEditedChannelPost
	case u.MessageReaction != nil:
		return KindMessageReaction
	case u.MessageReactionCount != nil:
		return KindMessageReactionCount
	case u.InlineQuery != nil:
		return KindInlineQuery
	case u.ChosenInlineResult != nil:
		return KindChosenInlineResult
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	case u.ShippingQuery != nil:
		return KindShippingQuery
	case u.PreCheckoutQuery != nil:
		return KindPreCheckoutQuery
	case u.Poll != nil:
		return KindPoll
	case u.PollAnswer != nil:
		return KindPollAnswer
	case u.MyChatMember != nil:
		return KindMyChatMember
	case u.ChatMember != nil:
		return KindChatMember
	case u.ChatJoinRequest != nil:
		return KindChatJoinRequest
	case u.ChatBoost != nil:
		return KindChatBoost
	case u.RemovedChatBoost != nil:
		return KindRemovedChatBoost
	default:
		return KindUnknown
	}
}

// FromUser returns the user that produced this update, if any variant
// carries one.
func (u *Update) FromUser() *User {
	switch u.Kind() {
	case KindMessage:
		return u.Message.From
	case KindEditedMessage:
		return u.EditedMessage.From
	case KindChannelPost:
		return u.ChannelPost.From
	case KindEditedChannelPost:
		return u.EditedChannelPost.From
	case KindMessageReaction:
		return u.MessageReaction.User
	case KindInlineQuery:
		return u.InlineQuery.From
	case KindChosenInlineResult:
		return u.ChosenInlineResult.From
	case KindCallbackQuery:
		return u.CallbackQuery.From
	case KindShippingQuery:
		return u.ShippingQuery.From
	case KindPreCheckoutQuery:
		return u.PreCheckoutQuery.From
	case KindPollAnswer:
		return u.PollAnswer.User
	case KindMyChatMember:
		return u.MyChatMember.From
	case KindChatMember:
		return u.ChatMember.From
	case KindChatJoinRequest:
		return u.ChatJoinRequest.From
	default:
		return nil
	}
}

// Chat returns the chat this update occurred in, if any variant carries one.
func (u *Update) Chat() *Chat {
	switch u.Kind() {
	case KindMessage:
		return u.Message.Chat
	case KindEditedMessage:
		return u.EditedMessage.Chat
	case KindChannelPost:
		return u.ChannelPost.Chat
	case KindEditedChannelPost:
		return u.EditedChannelPost.Chat
	case KindMessageReaction:
		return u.MessageReaction.Chat
	case KindMessageReactionCount:
		return u.MessageReactionCount.Chat
	case KindCallbackQuery:
		if u.CallbackQuery.Message != nil {
			return u.CallbackQuery.Message.Chat
		}
		return nil
	case KindMyChatMember:
		return u.MyChatMember.Chat
	case KindChatMember:
		return u.ChatMember.Chat
	case KindChatJoinRequest:
		return u.ChatJoinRequest.Chat
	case KindChatBoost:
		return u.ChatBoost.Chat
	case KindRemovedChatBoost:
		return u.RemovedChatBoost.Chat
	default:
		return nil
	}
}

// ThreadID returns the forum topic thread id carried by this update, if any.
func (u *Update) ThreadID() (int, bool) {
	var msg *Message
	switch u.Kind() {
	case KindMessage:
		msg = u.Message
	case KindEditedMessage:
		msg = u.EditedMessage
	case KindChannelPost:
		msg = u.ChannelPost
	case KindEditedChannelPost:
		msg = u.EditedChannelPost
	}
	if msg == nil || msg.MessageThreadID == 0 {
		return 0, false
	}
	return msg.MessageThreadID, true
}
