package router

import (
	"context"
	"sync"
)

// canNavigate runs the permission phase: one predicate per node in the
// subtree rooted at this router, all evaluated before the phase settles,
// combined with logical AND. An empty subtree is vacuously true. A single
// refusal anywhere aborts the whole navigation with no partial commit.
func (r *Router) canNavigate(ctx context.Context, m *Match) bool {
	nodes := r.subtree()

	votes := make([]bool, len(nodes))
	var wg sync.WaitGroup
	for i, node := range nodes {
		wg.Add(1)
		go func(i int, node *Router) {
			defer wg.Done()
			votes[i] = node.navigationPredicate(ctx, m)
		}(i, node)
	}
	wg.Wait()

	for _, ok := range votes {
		if !ok {
			recordPermissionDenied()
			return false
		}
	}
	return true
}

// navigationPredicate gathers one vote per viewport registered on this
// node, in parallel, and ANDs them. A node with no viewports is vacuously
// true.
func (r *Router) navigationPredicate(ctx context.Context, m *Match) bool {
	ports := r.snapshotPorts()
	if len(ports) == 0 {
		return true
	}

	votes := make(chan bool, len(ports))
	for _, vp := range ports {
		go func(vp Viewport) {
			votes <- r.checkViewport(ctx, vp, m)
		}(vp)
	}

	ok := true
	for range ports {
		if !<-votes {
			ok = false
		}
	}
	return ok
}

// checkViewport produces one viewport's vote on the new match.
//
// A viewport that can reactivate votes true with no further side effects.
// Otherwise, if deactivation is allowed (or unvetoable), the replacement
// is instantiated and loaded eagerly as part of the check itself, and the
// vote is the activate check's answer (true when absent). A refused
// deactivation votes false. Lookahead side effects are never rolled back
// when a later vote fails.
func (r *Router) checkViewport(ctx context.Context, vp Viewport, m *Match) bool {
	if rc, ok := vp.(ReactivateChecker); ok && rc.CanReactivate(m) {
		return true
	}

	if dc, ok := vp.(DeactivateChecker); ok && !dc.CanDeactivate(m) {
		return false
	}

	if in, ok := vp.(Instantiator); ok {
		in.Instantiate(m)
	}
	if ld, ok := vp.(Loader); ok {
		if err := ld.Load(ctx, m); err != nil {
			// Load is lookahead work; a failure does not veto the vote.
			r.logger.Warn("viewport load failed", "component", m.Component, "error", err)
		}
	}

	if ac, ok := vp.(ActivateChecker); ok {
		return ac.CanActivate(m)
	}
	return true
}
