package dispatcher

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/basket/tgdispatch/tgtype"
)

// convertUpdate is the only place in this repo that knows how to build a
// tgtype.Update from a wire tgbotapi.Update. The core package tgtype never
// imports tgbotapi.
func convertUpdate(u tgbotapi.Update) *tgtype.Update {
	out := &tgtype.Update{UpdateID: u.UpdateID}

	out.Message = convertMessage(u.Message)
	out.EditedMessage = convertMessage(u.EditedMessage)
	out.ChannelPost = convertMessage(u.ChannelPost)
	out.EditedChannelPost = convertMessage(u.EditedChannelPost)
	out.InlineQuery = convertInlineQuery(u.InlineQuery)
	out.ChosenInlineResult = convertChosenInlineResult(u.ChosenInlineResult)
	out.CallbackQuery = convertCallbackQuery(u.CallbackQuery)
	out.ShippingQuery = convertShippingQuery(u.ShippingQuery)
	out.PreCheckoutQuery = convertPreCheckoutQuery(u.PreCheckoutQuery)
	out.Poll = convertPoll(u.Poll)
	out.PollAnswer = convertPollAnswer(u.PollAnswer)
	out.MyChatMember = convertChatMemberUpdated(u.MyChatMember)
	out.ChatMember = convertChatMemberUpdated(u.ChatMember)
	out.ChatJoinRequest = convertChatJoinRequest(u.ChatJoinRequest)

	return out
}

func convertUser(u *tgbotapi.User) *tgtype.User {
	if u == nil {
		return nil
	}
	return &tgtype.User{
		ID:           u.ID,
		IsBot:        u.IsBot,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.UserName,
		LanguageCode: u.LanguageCode,
	}
}

func convertChat(c *tgbotapi.Chat) *tgtype.Chat {
	if c == nil {
		return nil
	}
	return &tgtype.Chat{
		ID:       c.ID,
		Type:     c.Type,
		Title:    c.Title,
		Username: c.UserName,
	}
}

func convertEntities(entities []tgbotapi.MessageEntity) []tgtype.MessageEntity {
	if len(entities) == 0 {
		return nil
	}
	out := make([]tgtype.MessageEntity, len(entities))
	for i, e := range entities {
		out[i] = tgtype.MessageEntity{Type: e.Type, Offset: e.Offset, Length: e.Length}
	}
	return out
}

func convertMessage(m *tgbotapi.Message) *tgtype.Message {
	if m == nil {
		return nil
	}
	return &tgtype.Message{
		MessageID:       m.MessageID,
		From:            convertUser(m.From),
		Chat:            convertChat(m.Chat),
		Date:            int64(m.Date),
		Text:            m.Text,
		MessageThreadID: m.MessageThreadID,
		IsTopicMessage:  m.IsTopicMessage,
		Entities:        convertEntities(m.Entities),
		ReplyToMessage:  convertMessage(m.ReplyToMessage),
	}
}

func convertCallbackQuery(c *tgbotapi.CallbackQuery) *tgtype.CallbackQuery {
	if c == nil {
		return nil
	}
	return &tgtype.CallbackQuery{
		ID:           c.ID,
		From:         convertUser(c.From),
		Message:      convertMessage(c.Message),
		Data:         c.Data,
		ChatInstance: c.ChatInstance,
	}
}

func convertInlineQuery(q *tgbotapi.InlineQuery) *tgtype.InlineQuery {
	if q == nil {
		return nil
	}
	return &tgtype.InlineQuery{ID: q.ID, From: convertUser(q.From), Query: q.Query, Offset: q.Offset}
}

func convertChosenInlineResult(r *tgbotapi.ChosenInlineResult) *tgtype.ChosenInlineResult {
	if r == nil {
		return nil
	}
	return &tgtype.ChosenInlineResult{ResultID: r.ResultID, From: convertUser(r.From), Query: r.Query}
}

func convertShippingQuery(q *tgbotapi.ShippingQuery) *tgtype.ShippingQuery {
	if q == nil {
		return nil
	}
	return &tgtype.ShippingQuery{ID: q.ID, From: convertUser(q.From), InvoicePayload: q.InvoicePayload}
}

func convertPreCheckoutQuery(q *tgbotapi.PreCheckoutQuery) *tgtype.PreCheckoutQuery {
	if q == nil {
		return nil
	}
	return &tgtype.PreCheckoutQuery{
		ID:             q.ID,
		From:           convertUser(q.From),
		Currency:       q.Currency,
		TotalAmount:    q.TotalAmount,
		InvoicePayload: q.InvoicePayload,
	}
}

func convertPoll(p *tgbotapi.Poll) *tgtype.Poll {
	if p == nil {
		return nil
	}
	opts := make([]tgtype.PollOption, len(p.Options))
	for i, o := range p.Options {
		opts[i] = tgtype.PollOption{Text: o.Text, VoterCount: o.VoterCount}
	}
	return &tgtype.Poll{ID: p.ID, Question: p.Question, Options: opts}
}

func convertPollAnswer(a *tgbotapi.PollAnswer) *tgtype.PollAnswer {
	if a == nil {
		return nil
	}
	return &tgtype.PollAnswer{PollID: a.PollID, User: convertUser(a.User), OptionIDs: a.OptionIDs}
}

func convertChatMemberUpdated(c *tgbotapi.ChatMemberUpdated) *tgtype.ChatMemberUpdated {
	if c == nil {
		return nil
	}
	out := &tgtype.ChatMemberUpdated{
		Chat: convertChat(&c.Chat),
		From: convertUser(&c.From),
		Date: int64(c.Date),
	}
	out.OldStatus = c.OldChatMember.Status
	out.NewStatus = c.NewChatMember.Status
	return out
}

func convertChatJoinRequest(r *tgbotapi.ChatJoinRequest) *tgtype.ChatJoinRequest {
	if r == nil {
		return nil
	}
	return &tgtype.ChatJoinRequest{
		Chat: convertChat(&r.Chat),
		From: convertUser(&r.From),
		Date: int64(r.Date),
		Bio:  r.Bio,
	}
}
