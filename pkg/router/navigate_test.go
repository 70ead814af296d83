package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNavigateCancelledByRefusedDeactivation(t *testing.T) {
	ctx := context.Background()
	r := New()
	mustConfigure(t, r,
		Mapping{Path: "/users", Component: "UserList"},
		Mapping{Path: "/projects", Component: "ProjectList"},
	)

	vp := newRecordingViewport()
	r.RegisterViewport(ctx, vp, "")

	if _, err := r.Navigate(ctx, "/users"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	before := r.Context()

	vp.mu.Lock()
	vp.calls = nil
	vp.canDeactivate = false
	vp.mu.Unlock()

	settled, err := r.Navigate(ctx, "/projects")
	if !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}
	if settled != "" {
		t.Errorf("settled = %q, want empty", settled)
	}
	if got := vp.count("activate:"); got != 0 {
		t.Errorf("activate count = %d, want 0 after refusal", got)
	}
	if got := vp.count("deactivate"); got != 0 {
		t.Errorf("deactivate count = %d, want 0 after refusal", got)
	}
	if got := r.Context(); got != before {
		t.Errorf("Context() changed after refusal: %+v", got)
	}
}

func TestRenavigateRetriesRefusedURL(t *testing.T) {
	ctx := context.Background()
	r := New()
	mustConfigure(t, r,
		Mapping{Path: "/users", Component: "UserList"},
		Mapping{Path: "/projects", Component: "ProjectList"},
	)

	vp := newRecordingViewport()
	r.RegisterViewport(ctx, vp, "")

	if _, err := r.Navigate(ctx, "/users"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	vp.mu.Lock()
	vp.canDeactivate = false
	vp.mu.Unlock()
	if _, err := r.Navigate(ctx, "/projects"); !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}

	vp.mu.Lock()
	vp.canDeactivate = true
	vp.mu.Unlock()

	settled, err := r.Renavigate(ctx)
	if err != nil {
		t.Fatalf("Renavigate failed: %v", err)
	}
	if settled != "/projects" {
		t.Errorf("settled = %q, want %q (the refused attempt)", settled, "/projects")
	}
	if got := vp.count("activate:ProjectList"); got != 1 {
		t.Errorf("activate count = %d, want 1", got)
	}
}

func TestNavigateCancelledByDescendantVote(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	parentVP := newRecordingViewport()
	parent.RegisterViewport(ctx, parentVP, "")

	child := parent.ChildRouter()
	childVP := newRecordingViewport()
	childVP.canDeactivate = false
	child.RegisterViewport(ctx, childVP, "")

	_, err := parent.Navigate(ctx, "/app")
	if !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}
	if got := parentVP.count("activate:"); got != 0 {
		t.Errorf("parent activate count = %d, want 0: no partial commit", got)
	}
	if parent.Context() != nil {
		t.Error("parent context must be unchanged after a descendant veto")
	}
}

func TestPermissionLookaheadNotRolledBack(t *testing.T) {
	ctx := context.Background()
	r := New()
	mustConfigure(t, r, Mapping{Path: "/users", Component: "UserList"})

	// willing loads eagerly during its vote; veto refuses the navigation.
	willing := newRecordingViewport()
	veto := newRecordingViewport()
	veto.canDeactivate = false
	r.RegisterViewport(ctx, willing, "main")
	r.RegisterViewport(ctx, veto, "side")

	if _, err := r.Navigate(ctx, "/users"); !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}

	if got := willing.count("instantiate"); got != 1 {
		t.Errorf("instantiate count = %d, want 1: lookahead runs during the vote", got)
	}
	if got := willing.count("load"); got != 1 {
		t.Errorf("load count = %d, want 1: lookahead runs during the vote", got)
	}
	if got := willing.count("activate:"); got != 0 {
		t.Errorf("activate count = %d, want 0 after refusal", got)
	}
}

// blockingLoader parks the permission phase until released.
type blockingLoader struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (v *blockingLoader) Load(ctx context.Context, m *Match) error {
	v.once.Do(func() { close(v.started) })
	<-v.release
	return nil
}

func TestNavigateReentrantIsNoop(t *testing.T) {
	ctx := context.Background()
	r := New()
	mustConfigure(t, r, Mapping{Path: "/users", Component: "UserList"})

	vp := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	r.RegisterViewport(ctx, vp, "")

	var settled string
	var navErr error
	done := make(chan struct{})
	go func() {
		settled, navErr = r.Navigate(ctx, "/users")
		close(done)
	}()

	<-vp.started

	got, err := r.Navigate(ctx, "/users")
	if err != nil {
		t.Fatalf("re-entrant Navigate error = %v, want nil", err)
	}
	if got != "" {
		t.Errorf("re-entrant Navigate = %q, want empty no-op", got)
	}

	close(vp.release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first navigation did not settle")
	}
	if navErr != nil {
		t.Fatalf("first Navigate failed: %v", navErr)
	}
	if settled != "/users" {
		t.Errorf("first Navigate settled = %q, want %q", settled, "/users")
	}
}

// componentVeto refuses activation of one named component.
type componentVeto struct {
	refuse string
}

func (v componentVeto) CanActivate(m *Match) bool { return m.Component != v.refuse }

func TestNavigateChildRefusalPropagates(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child, Mapping{Path: "/list", Component: "List"})
	child.RegisterViewport(ctx, componentVeto{refuse: "List"}, "")

	// The veto only triggers on the child's own match, so the parent's
	// subtree vote passes and the refusal happens during delegation.
	settled, err := parent.Navigate(ctx, "/app/list")
	if !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}
	if settled != "" {
		t.Errorf("settled = %q, want empty after a child refusal", settled)
	}
	if child.Context() != nil {
		t.Error("child context must be unchanged after its refusal")
	}
}

func TestPureDelegationPropagatesChildRefusal(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child,
		Mapping{Path: "/list", Component: "List"},
		Mapping{Path: "/detail", Component: "Detail"},
	)
	child.RegisterViewport(ctx, componentVeto{refuse: "Detail"}, "")

	if _, err := parent.Navigate(ctx, "/app/list"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	settled, err := parent.Navigate(ctx, "/app/detail")
	if !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("Navigate error = %v, want ErrNavigationCancelled", err)
	}
	if settled != "" {
		t.Errorf("settled = %q, want empty after a child refusal", settled)
	}
	if got := child.Context(); got == nil || got.Component != "List" {
		t.Errorf("child Context() = %+v, want component List preserved", got)
	}
}

func TestNavigateDelegatesChildSuffix(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child, Mapping{Path: "/list", Component: "List"})

	parentVP := newRecordingViewport()
	parent.RegisterViewport(ctx, parentVP, "")
	childVP := newRecordingViewport()
	child.RegisterViewport(ctx, childVP, "")

	settled, err := parent.Navigate(ctx, "/app/list")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if settled != "/app/list" {
		t.Errorf("settled = %q, want %q", settled, "/app/list")
	}
	if got := parentVP.count("activate:App"); got != 1 {
		t.Errorf("parent activate count = %d, want 1", got)
	}
	if got := childVP.count("activate:List"); got != 1 {
		t.Errorf("child activate count = %d, want 1", got)
	}
	if got := child.Context(); got == nil || got.Component != "List" {
		t.Errorf("child Context() = %+v, want component List", got)
	}
}

func TestNavigatePureDelegationSkipsOwnViewports(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child,
		Mapping{Path: "/list", Component: "List"},
		Mapping{Path: "/detail", Component: "Detail"},
	)

	parentVP := newRecordingViewport()
	parent.RegisterViewport(ctx, parentVP, "")
	childVP := newRecordingViewport()
	child.RegisterViewport(ctx, childVP, "")

	if _, err := parent.Navigate(ctx, "/app/list"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	parentVP.mu.Lock()
	parentVP.calls = nil
	parentVP.mu.Unlock()

	settled, err := parent.Navigate(ctx, "/app/detail")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if settled != "/app/detail" {
		t.Errorf("settled = %q, want %q", settled, "/app/detail")
	}
	if got := parentVP.count(""); got != 0 {
		t.Errorf("parent viewport calls = %d, want 0 for pure delegation", got)
	}
	if got := childVP.count("activate:Detail"); got != 1 {
		t.Errorf("child activate count = %d, want 1", got)
	}
}
