package bot

import "strconv"

// RawMethod is a minimal Method implementation for callers that already
// have a flat parameter map. It exists so handler code and tests never need
// to hand-write a Method type for a one-off call.
type RawMethod struct {
	MethodName string
	Values     map[string]string
}

func (m RawMethod) Name() string { return m.MethodName }

func (m RawMethod) Params() (map[string]string, error) {
	if m.Values == nil {
		return map[string]string{}, nil
	}
	return m.Values, nil
}

// SendMessage builds the "sendMessage" Method for the common case of
// replying with plain text. It is a convenience constructor, not a
// dependency of the dispatch core itself, which keeps concrete request
// types out of its own scope.
func SendMessage(chatID int64, text string) Method {
	return RawMethod{
		MethodName: "sendMessage",
		Values: map[string]string{
			"chat_id": strconv.FormatInt(chatID, 10),
			"text":    text,
		},
	}
}

// CopyMessage builds the "copyMessage" Method used by echo-style handlers
// that forward a message back into its originating chat.
func CopyMessage(toChatID, fromChatID int64, messageID int) Method {
	return RawMethod{
		MethodName: "copyMessage",
		Values: map[string]string{
			"chat_id":      strconv.FormatInt(toChatID, 10),
			"from_chat_id": strconv.FormatInt(fromChatID, 10),
			"message_id":   strconv.Itoa(messageID),
		},
	}
}
