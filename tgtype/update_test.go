package tgtype

import "testing"

func TestUpdate_Kind_Unknown(t *testing.T) {
	u := &Update{UpdateID: 1}
	if got := u.Kind(); got != KindUnknown {
		t.Fatalf("Kind() = %v, want KindUnknown", got)
	}
}

func TestUpdate_Kind_PrecedenceFollowsDeclarationOrder(t *testing.T) {
	// A server bug populating both Message and CallbackQuery must classify
	// as the earlier-declared variant, Message.
	u := &Update{
		Message:       &Message{MessageID: 1},
		CallbackQuery: &CallbackQuery{ID: "cb"},
	}
	if got := u.Kind(); got != KindMessage {
		t.Fatalf("Kind() = %v, want KindMessage (declaration-order precedence)", got)
	}
}

func TestUpdate_FromUser(t *testing.T) {
	user := &User{ID: 42}
	u := &Update{Message: &Message{From: user}}
	if got := u.FromUser(); got != user {
		t.Fatalf("FromUser() = %v, want %v", got, user)
	}
}

func TestUpdate_FromUser_NilForVariantWithoutUser(t *testing.T) {
	u := &Update{Poll: &Poll{ID: "p"}}
	if got := u.FromUser(); got != nil {
		t.Fatalf("FromUser() = %v, want nil (Poll has no from_user)", got)
	}
}

func TestUpdate_Chat(t *testing.T) {
	chat := &Chat{ID: 7}
	u := &Update{Message: &Message{Chat: chat}}
	if got := u.Chat(); got != chat {
		t.Fatalf("Chat() = %v, want %v", got, chat)
	}
}

func TestUpdate_Chat_CallbackQueryNestsThroughMessage(t *testing.T) {
	chat := &Chat{ID: 7}
	u := &Update{CallbackQuery: &CallbackQuery{Message: &Message{Chat: chat}}}
	if got := u.Chat(); got != chat {
		t.Fatalf("Chat() = %v, want %v", got, chat)
	}
}

func TestUpdate_Chat_CallbackQueryWithoutMessageIsNil(t *testing.T) {
	u := &Update{CallbackQuery: &CallbackQuery{ID: "cb"}}
	if got := u.Chat(); got != nil {
		t.Fatalf("Chat() = %v, want nil", got)
	}
}

func TestUpdate_ThreadID(t *testing.T) {
	u := &Update{Message: &Message{MessageThreadID: 99}}
	id, ok := u.ThreadID()
	if !ok || id != 99 {
		t.Fatalf("ThreadID() = (%d, %v), want (99, true)", id, ok)
	}
}

func TestUpdate_ThreadID_AbsentWhenZero(t *testing.T) {
	u := &Update{Message: &Message{}}
	if _, ok := u.ThreadID(); ok {
		t.Fatal("ThreadID() ok = true for a message with no thread")
	}
}

func TestUpdateKind_String(t *testing.T) {
	if got := KindMessage.String(); got != "message" {
		t.Fatalf("KindMessage.String() = %q, want \"message\"", got)
	}
	if got := UpdateKind(-1).String(); got != "unknown" {
		t.Fatalf("UpdateKind(-1).String() = %q, want \"unknown\"", got)
	}
}

func TestAllKinds_MatchesEveryDeclaredKind(t *testing.T) {
	if len(AllKinds) != 18 {
		t.Fatalf("len(AllKinds) = %d, want 18", len(AllKinds))
	}
}
