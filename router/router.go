// Package router implements Router composition: a tree of observers and
// child routers that propagates one update pre-order, stopping at the
// first Finish or Cancel.
package router

import (
	"context"
	"fmt"

	"github.com/basket/tgdispatch/middleware"
	"github.com/basket/tgdispatch/observer"
	"github.com/basket/tgdispatch/reqtype"
	"github.com/basket/tgdispatch/tgtype"
)

// Router owns one "update" pseudo-observer (outer middlewares here run for
// every update kind), one observer per UpdateKind, an ordered list of
// children, and a name used only for diagnostics.
type Router struct {
	Name     string
	update   *observer.Observer
	kinds    map[tgtype.UpdateKind]*observer.Observer
	children []*Router
	parented bool
}

// New creates an empty, unparented router.
func New(name string) *Router {
	r := &Router{Name: name, kinds: make(map[tgtype.UpdateKind]*observer.Observer)}
	r.update = observer.New(tgtype.KindUnknown)
	return r
}

// UpdateObserver returns the pseudo-observer that sees every update
// regardless of kind; its outer middlewares are the router-wide ones.
func (r *Router) UpdateObserver() *observer.Observer { return r.update }

// Observer returns (creating if needed) the per-kind observer for kind.
func (r *Router) Observer(kind tgtype.UpdateKind) *observer.Observer {
	o, ok := r.kinds[kind]
	if !ok {
		o = observer.New(kind)
		r.kinds[kind] = o
	}
	return o
}

// Include appends child to this router's children. It fails if child is
// already parented elsewhere, or if appending it would create a cycle.
func (r *Router) Include(child *Router) error {
	if child == r {
		return fmt.Errorf("router %q: cannot include itself", r.Name)
	}
	if child.parented {
		return fmt.Errorf("router %q: child %q is already parented", r.Name, child.Name)
	}
	if r.reachableFrom(child) {
		return fmt.Errorf("router %q: including %q would create a cycle", r.Name, child.Name)
	}
	child.parented = true
	r.children = append(r.children, child)
	return nil
}

// reachableFrom reports whether r is reachable by descending from node,
// i.e. whether including node under r would close a cycle.
func (r *Router) reachableFrom(node *Router) bool {
	if node == r {
		return true
	}
	for _, c := range node.children {
		if r.reachableFrom(c) {
			return true
		}
	}
	return false
}

// ResolveUsedUpdateTypes returns every UpdateKind that has at least one
// handler registered anywhere in the subtree rooted at r, used to populate
// allowed_updates on long-poll requests.
func (r *Router) ResolveUsedUpdateTypes() []tgtype.UpdateKind {
	seen := make(map[tgtype.UpdateKind]bool)
	r.collectUsedUpdateTypes(seen)

	var out []tgtype.UpdateKind
	for _, k := range tgtype.AllKinds {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}

func (r *Router) collectUsedUpdateTypes(seen map[tgtype.UpdateKind]bool) {
	for kind, o := range r.kinds {
		if o.HandlerCount() > 0 {
			seen[kind] = true
		}
	}
	for _, c := range r.children {
		c.collectUsedUpdateTypes(seen)
	}
}

// PropagateEvent propagates one update through this router: the update
// observer runs first, then the matching kind observer, then — if neither
// finished — each child in order.
//
// A Finish or Cancel from the update observer — whether from its outer
// chain or from a handler registered directly on it via UpdateObserver —
// stops propagation into this router's own kind observer and children. A
// deliberate Skip from the update-observer's outer chain also stops
// propagation into this router. A Skip caused by a middleware error is a
// different case: it is logged at the observer level and this router's own
// kind-observer and children are still visited, distinguished here by
// checking whether the response carries the error.
func (r *Router) PropagateEvent(ctx context.Context, kind tgtype.UpdateKind, req reqtype.Request) (reqtype.HandlerResponse, reqtype.EventReturn, error) {
	updateResp, updateResult, _ := r.update.Trigger(ctx, req)
	if updateResult == reqtype.Cancel {
		return updateResp, reqtype.Cancel, nil
	}
	if updateResult == reqtype.Finish {
		return updateResp, reqtype.Finish, nil
	}
	if updateResult == reqtype.Skip && updateResp.Err == nil {
		return updateResp, reqtype.Skip, nil
	}

	if o, ok := r.kinds[kind]; ok {
		resp, result, _ := o.Trigger(ctx, req)
		if result == reqtype.Finish {
			return resp, reqtype.Finish, nil
		}
		if result == reqtype.Cancel {
			return resp, reqtype.Cancel, nil
		}
	}

	for _, child := range r.children {
		resp, result, _ := child.PropagateEvent(ctx, kind, req)
		switch result {
		case reqtype.Finish:
			return resp, reqtype.Finish, nil
		case reqtype.Cancel:
			return resp, reqtype.Cancel, nil
		default:
			continue
		}
	}

	return reqtype.HandlerResponse{Request: req.ToHandlerRequest(), HandlerResult: reqtype.Skip}, reqtype.Skip, nil
}

// UseOuter attaches a router-wide outer middleware, run for every update
// kind, without reaching into the update observer directly.
func (r *Router) UseOuter(m middleware.Outer) *Router {
	r.update.UseOuter(m)
	return r
}
