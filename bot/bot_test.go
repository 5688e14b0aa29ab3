package bot

import (
	"strings"
	"testing"
)

func TestBot_StringRedactsToken(t *testing.T) {
	b := &Bot{id: 42, token: "123456789:ABCdefGHIjklMNOpqrSTUvwxYZ0123456789"}

	if got := b.ID(); got != 42 {
		t.Fatalf("ID() = %d, want 42", got)
	}
	if got := b.Token(); got != "123456789:ABCdefGHIjklMNOpqrSTUvwxYZ0123456789" {
		t.Fatalf("Token() leaked wrong value: %q", got)
	}

	s := b.String()
	if strings.Contains(s, "ABCdefGHIjklMNOpqrSTUvwxYZ0123456789") {
		t.Fatalf("String() leaked raw token: %q", s)
	}
	if !strings.Contains(s, "[REDACTED]") {
		t.Fatalf("String() did not redact token: %q", s)
	}
	if b.LogValue() != s {
		t.Fatalf("LogValue() should match String()")
	}
}

func TestRawMethod(t *testing.T) {
	m := RawMethod{MethodName: "sendMessage", Values: map[string]string{"chat_id": "1"}}
	if m.Name() != "sendMessage" {
		t.Fatalf("Name() = %q", m.Name())
	}
	params, err := m.Params()
	if err != nil {
		t.Fatalf("Params() error: %v", err)
	}
	if params["chat_id"] != "1" {
		t.Fatalf("Params() = %v", params)
	}
}

func TestRawMethod_NilValues(t *testing.T) {
	m := RawMethod{MethodName: "getMe"}
	params, err := m.Params()
	if err != nil || len(params) != 0 {
		t.Fatalf("expected empty params, got %v err %v", params, err)
	}
}

func TestSendMessage(t *testing.T) {
	m := SendMessage(10, "hi")
	if m.Name() != "sendMessage" {
		t.Fatalf("Name() = %q", m.Name())
	}
	params, _ := m.Params()
	if params["chat_id"] != "10" || params["text"] != "hi" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestCopyMessage(t *testing.T) {
	m := CopyMessage(10, 10, 7)
	params, _ := m.Params()
	if params["chat_id"] != "10" || params["from_chat_id"] != "10" || params["message_id"] != "7" {
		t.Fatalf("unexpected params: %v", params)
	}
}
