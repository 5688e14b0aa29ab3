package router

import (
	"context"
	"testing"

	"github.com/basket/tgdispatch/observer"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgcontext"
	"github.com/basket/tgdispatch/tgtype"
)

func newReq() reqtype.Request {
	return reqtype.Request{Update: &tgtype.Update{Message: &tgtype.Message{}}, Context: tgcontext.New()}
}

func finishingHandler() observer.HandlerEntry {
	return observer.HandlerEntry{Service: func(_ context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
		return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Finish}, nil
	}}
}

func TestInclude_RejectsSelfAndReparenting(t *testing.T) {
	r := New("root")
	if err := r.Include(r); err == nil {
		t.Fatalf("expected error including self")
	}

	child := New("child")
	if err := r.Include(child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := New("other")
	if err := other.Include(child); err == nil {
		t.Fatalf("expected error re-parenting an already-parented child")
	}
}

func TestInclude_RejectsCycle(t *testing.T) {
	a := New("a")
	b := New("b")
	if err := a.Include(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Include(a); err == nil {
		t.Fatalf("expected error creating a cycle")
	}
}

func TestResolveUsedUpdateTypes(t *testing.T) {
	root := New("root")
	root.Observer(tgtype.KindMessage).Register(finishingHandler())

	child := New("child")
	child.Observer(tgtype.KindCallbackQuery).Register(finishingHandler())
	_ = root.Include(child)

	kinds := root.ResolveUsedUpdateTypes()
	if len(kinds) != 2 || kinds[0] != tgtype.KindMessage || kinds[1] != tgtype.KindCallbackQuery {
		t.Fatalf("got %v", kinds)
	}
}

func TestPropagateEvent_OwnHandlerFinishStopsBeforeChildren(t *testing.T) {
	root := New("root")
	root.Observer(tgtype.KindMessage).Register(finishingHandler())

	childRan := false
	child := New("child")
	child.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{Service: func(_ context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
		childRan = true
		return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Finish}, nil
	}})
	_ = root.Include(child)

	_, result, err := root.PropagateEvent(context.Background(), tgtype.KindMessage, newReq())
	if err != nil || result != reqtype.Finish {
		t.Fatalf("got %v, %v", result, err)
	}
	if childRan {
		t.Fatalf("child must not run once the parent's own handler finishes")
	}
}

func TestPropagateEvent_FallsThroughToChildOnSkip(t *testing.T) {
	root := New("root")

	child := New("child")
	child.Observer(tgtype.KindMessage).Register(finishingHandler())
	_ = root.Include(child)

	_, result, err := root.PropagateEvent(context.Background(), tgtype.KindMessage, newReq())
	if err != nil || result != reqtype.Finish {
		t.Fatalf("got %v, %v", result, err)
	}
}

func TestPropagateEvent_NoMatchReportsSkip(t *testing.T) {
	root := New("root")
	_, result, err := root.PropagateEvent(context.Background(), tgtype.KindMessage, newReq())
	if err != nil || result != reqtype.Skip {
		t.Fatalf("got %v, %v", result, err)
	}
}

func TestPropagateEvent_UpdateObserverHandlerFinishStopsDescent(t *testing.T) {
	root := New("root")
	root.UpdateObserver().Register(finishingHandler())

	kindRan := false
	root.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{Service: func(_ context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
		kindRan = true
		return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Finish}, nil
	}})

	childRan := false
	child := New("child")
	child.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{Service: func(_ context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
		childRan = true
		return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Finish}, nil
	}})
	_ = root.Include(child)

	_, result, err := root.PropagateEvent(context.Background(), tgtype.KindMessage, newReq())
	if err != nil || result != reqtype.Finish {
		t.Fatalf("got %v, %v", result, err)
	}
	if kindRan {
		t.Fatalf("kind observer must not run once the update observer's own handler finishes")
	}
	if childRan {
		t.Fatalf("child must not run once the update observer's own handler finishes")
	}
}

func TestPropagateEvent_FirstChildFinishStopsSecondChild(t *testing.T) {
	root := New("root")

	c1 := New("c1")
	c1.Observer(tgtype.KindMessage).Register(finishingHandler())
	_ = root.Include(c1)

	c2ran := false
	c2 := New("c2")
	c2.Observer(tgtype.KindMessage).Register(observer.HandlerEntry{Service: func(_ context.Context, req reqtype.HandlerRequest) (reqtype.HandlerResponse, error) {
		c2ran = true
		return reqtype.HandlerResponse{Request: req, HandlerResult: reqtype.Finish}, nil
	}})
	_ = root.Include(c2)

	_, result, _ := root.PropagateEvent(context.Background(), tgtype.KindMessage, newReq())
	if result != reqtype.Finish {
		t.Fatalf("got %v", result)
	}
	if c2ran {
		t.Fatalf("second child must not run once first child finishes")
	}
}
