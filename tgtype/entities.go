package tgtype

// User is a Telegram user or bot, trimmed to the fields the dispatch core
// and its built-in extractors/filters actually need.
type User struct {
	ID           int64
	IsBot        bool
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// Chat is a Telegram chat (private, group, supergroup or channel).
type Chat struct {
	ID       int64
	Type     string
	Title    string
	Username string
}

// MessageEntity marks a formatted span of a Message's text.
type MessageEntity struct {
	Type   string
	Offset int
	Length int
}

// Message models a Telegram message (also used for channel posts).
type Message struct {
	MessageID       int
	From            *User
	Chat            *Chat
	Date            int64
	Text            string
	MessageThreadID int
	IsTopicMessage  bool
	Entities        []MessageEntity
	ReplyToMessage  *Message
}

// CallbackQuery is an inline keyboard button press.
type CallbackQuery struct {
	ID           string
	From         *User
	Message      *Message
	Data         string
	ChatInstance string
}

// InlineQuery is a query typed in "@bot ..." inline mode.
type InlineQuery struct {
	ID     string
	From   *User
	Query  string
	Offset string
}

// ChosenInlineResult reports which inline result the user picked.
type ChosenInlineResult struct {
	ResultID string
	From     *User
	Query    string
}

// ShippingQuery is a shipping-address query from a checkout flow.
type ShippingQuery struct {
	ID             string
	From           *User
	InvoicePayload string
}

// PreCheckoutQuery is the final checkout confirmation step.
type PreCheckoutQuery struct {
	ID             string
	From           *User
	Currency       string
	TotalAmount    int
	InvoicePayload string
}

// PollOption is one answer option of a Poll.
type PollOption struct {
	Text       string
	VoterCount int
}

// Poll is a native Telegram poll.
type Poll struct {
	ID       string
	Question string
	Options  []PollOption
}

// PollAnswer records one user's vote in a poll.
type PollAnswer struct {
	PollID    string
	User      *User
	OptionIDs []int
}

// ChatMemberUpdated reports a membership status transition.
type ChatMemberUpdated struct {
	Chat      *Chat
	From      *User
	Date      int64
	OldStatus string
	NewStatus string
}

// ChatJoinRequest is a pending request to join a chat with join-request mode.
type ChatJoinRequest struct {
	Chat *Chat
	From *User
	Date int64
	Bio  string
}

// ReactionType names a single reaction (emoji or custom).
type ReactionType struct {
	Type  string
	Emoji string
}

// ReactionCount pairs a reaction type with how many users left it.
type ReactionCount struct {
	Type       ReactionType
	TotalCount int
}

// MessageReactionUpdated reports a change in a single user's reactions.
type MessageReactionUpdated struct {
	Chat        *Chat
	MessageID   int
	User        *User
	Date        int64
	OldReaction []ReactionType
	NewReaction []ReactionType
}

// MessageReactionCountUpdated reports anonymized aggregate reaction counts.
type MessageReactionCountUpdated struct {
	Chat      *Chat
	MessageID int
	Date      int64
	Reactions []ReactionCount
}

// ChatBoost describes a single active boost.
type ChatBoost struct {
	BoostID        string
	AddDate        int64
	ExpirationDate int64
}

// ChatBoostUpdated reports a new or changed boost on a chat.
type ChatBoostUpdated struct {
	Chat  *Chat
	Boost ChatBoost
}

// ChatBoostRemoved reports a boost that no longer applies to a chat.
type ChatBoostRemoved struct {
	Chat       *Chat
	BoostID    string
	RemoveDate int64
}
