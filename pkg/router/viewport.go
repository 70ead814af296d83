package router

import (
	"context"
	"sync"
)

// Viewport is a named UI region whose displayed component the router
// controls. The interface itself requires nothing; a viewport opts into
// the lifecycle by implementing any of the capability interfaces below.
// A missing capability counts as an implicit approval or no-op.
type Viewport interface{}

// ReactivateChecker lets a viewport report that the new match can reuse
// its current component. An affirmative answer short-circuits the
// permission check for that viewport and swaps the commit-phase calls to
// Reactivate instead of Deactivate/Activate.
type ReactivateChecker interface {
	CanReactivate(m *Match) bool
}

// DeactivateChecker lets a viewport veto removal of its current component.
type DeactivateChecker interface {
	CanDeactivate(m *Match) bool
}

// ActivateChecker lets a viewport veto activation of the new component.
type ActivateChecker interface {
	CanActivate(m *Match) bool
}

// Instantiator constructs the replacement component eagerly, during the
// permission phase.
type Instantiator interface {
	Instantiate(m *Match)
}

// Loader loads the replacement component's resources. The router calls
// Load during the permission vote as a deliberate lookahead, so the load
// latency is paid once even though a later check can still veto. Wasted
// work from a vetoed navigation is not rolled back.
type Loader interface {
	Load(ctx context.Context, m *Match) error
}

// Deactivator tears down the viewport's current component on commit.
type Deactivator interface {
	Deactivate(m *Match)
}

// Activator shows the new component on commit.
type Activator interface {
	Activate(m *Match)
}

// Reactivator refreshes a kept component on commit.
type Reactivator interface {
	Reactivate(m *Match)
}

// activatePorts commits a successful navigation: every registered
// viewport is activated in parallel, then the residual child path is
// delegated to the child subtree. Returns the children's settled URL,
// or a child's refusal.
func (r *Router) activatePorts(ctx context.Context, m *Match) (string, error) {
	ports := r.snapshotPorts()

	var wg sync.WaitGroup
	for _, vp := range ports {
		wg.Add(1)
		go func(vp Viewport) {
			defer wg.Done()
			r.activateViewport(vp, m)
		}(vp)
	}
	wg.Wait()

	return r.navigateChildren(ctx, m)
}

// activateViewport runs the commit-phase calls for one viewport:
// Reactivate when the viewport keeps its component, otherwise Deactivate
// followed by Activate.
func (r *Router) activateViewport(vp Viewport, m *Match) {
	if rc, ok := vp.(ReactivateChecker); ok && rc.CanReactivate(m) {
		if ra, ok := vp.(Reactivator); ok {
			ra.Reactivate(m)
		}
		recordActivation("reactivate")
		return
	}
	if d, ok := vp.(Deactivator); ok {
		d.Deactivate(m)
	}
	if a, ok := vp.(Activator); ok {
		a.Activate(m)
	}
	recordActivation("activate")
}

// navigateChildren hands the residual child path to the child subtree.
// All children are navigated in parallel and awaited; the settled URL
// reported upward is the first child's, in registration order. A child
// refusal is returned to the caller, never swallowed.
func (r *Router) navigateChildren(ctx context.Context, m *Match) (string, error) {
	children := r.snapshotChildren()
	if len(children) == 0 {
		return "", nil
	}

	path := "/" + m.ChildPath

	settled := make([]string, len(children))
	errs := make([]error, len(children))
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child *Router) {
			defer wg.Done()
			settled[i], errs[i] = child.Navigate(ctx, path)
		}(i, child)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", err
		}
	}
	return settled[0], nil
}
