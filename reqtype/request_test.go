package reqtype

import (
	"testing"

	"github.com/basket/tgdispatch/bot"
	"github.com/basket/tgdispatch/tgcontext"
	"github.com/basket/tgdispatch/tgtype"
)

func TestRequest_ToHandlerRequest_IsFieldIdentity(t *testing.T) {
	b := bot.NewForTest(1, "123:abc")
	u := &tgtype.Update{UpdateID: 5}
	c := tgcontext.New()

	req := Request{Bot: b, Update: u, Context: c}
	hr := req.ToHandlerRequest()

	if hr.Bot != b || hr.Update != u || hr.Context != c {
		t.Fatalf("ToHandlerRequest() = %+v, want identical fields to %+v", hr, req)
	}
}

func TestHandlerRequest_ToRequest_IsFieldIdentity(t *testing.T) {
	b := bot.NewForTest(1, "123:abc")
	u := &tgtype.Update{UpdateID: 5}
	c := tgcontext.New()

	hr := HandlerRequest{Bot: b, Update: u, Context: c}
	req := hr.ToRequest()

	if req.Bot != b || req.Update != u || req.Context != c {
		t.Fatalf("ToRequest() = %+v, want identical fields to %+v", req, hr)
	}
}

func TestEventReturn_String(t *testing.T) {
	cases := []struct {
		in   EventReturn
		want string
	}{
		{Finish, "Finish"},
		{Skip, "Skip"},
		{Cancel, "Cancel"},
		{EventReturn(99), "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("EventReturn(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}
