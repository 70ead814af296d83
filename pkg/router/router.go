package router

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vport-dev/vport/pkg/recognizer"
)

// navState is the navigation engine state. Committed and cancelled are
// terminal outcomes of one navigation, both returning to idle.
type navState int

const (
	stateIdle navState = iota
	stateNavigating
)

// Router is one node in the router tree. It owns its route and rewrite
// tables, its registered viewports and its child routers; the parent
// reference is non-owning. A Router is safe for concurrent use, but at
// most one navigation is in flight on a node at a time: a Navigate call
// issued while another is pending on the same node is a silent no-op.
type Router struct {
	parent *Router

	// own matches routes this router resolves completely; delegating
	// matches the child-suffix twins that hand a remainder downward.
	own        *recognizer.Recognizer
	delegating *recognizer.Recognizer

	logger *slog.Logger
	tracer trace.Tracer

	mu       sync.Mutex
	children []*Router
	ports    map[string]Viewport
	rewrites []rewrite

	state   navState
	current *Match

	// dirty marks that routes or viewports changed since the last commit,
	// suspending the idempotence no-op so renavigation can converge.
	dirty bool

	// Recovery state for idempotence checks and Renavigate.
	previousSegment string
	previousURL     string
	lastAttempt     string
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Child routers inherit it.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithTracerName sets the OpenTelemetry tracer name (default "vport").
func WithTracerName(name string) Option {
	return func(r *Router) {
		r.tracer = otel.Tracer(name)
	}
}

// New creates a root router.
func New(opts ...Option) *Router {
	r := &Router{
		own:        recognizer.New(),
		delegating: recognizer.New(),
		logger:     slog.Default().With("component", "router"),
		tracer:     otel.Tracer(defaultTracerName),
		ports:      make(map[string]Viewport),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChildRouter creates a new router owned by this one and appends it to
// the child list. The child's parent pointer is immutable once set.
func (r *Router) ChildRouter() *Router {
	child := &Router{
		parent:     r,
		own:        recognizer.New(),
		delegating: recognizer.New(),
		logger:     r.logger,
		tracer:     r.tracer,
		ports:      make(map[string]Viewport),
	}
	r.mu.Lock()
	r.children = append(r.children, child)
	r.mu.Unlock()
	return child
}

// RegisterViewport registers a viewport under the given name, replacing
// any prior viewport with that name. An empty name means
// DefaultViewportName. Registration triggers an automatic re-navigation
// to the best known prior URL so a late-arriving viewport converges to
// the correct displayed state.
func (r *Router) RegisterViewport(ctx context.Context, vp Viewport, name string) {
	if name == "" {
		name = DefaultViewportName
	}
	r.mu.Lock()
	r.ports[name] = vp
	r.dirty = true
	r.mu.Unlock()

	if _, err := r.Renavigate(ctx); err != nil {
		r.logger.Warn("renavigation after viewport registration cancelled",
			"viewport", name, "error", err)
	}
}

// Context returns the currently active match, or nil when no navigation
// has committed yet.
func (r *Router) Context() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// snapshotPorts copies the viewport map for a fan-out phase.
func (r *Router) snapshotPorts() []Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	ports := make([]Viewport, 0, len(r.ports))
	for _, vp := range r.ports {
		ports = append(ports, vp)
	}
	return ports
}

// snapshotChildren copies the child list in registration order.
func (r *Router) snapshotChildren() []*Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	children := make([]*Router, len(r.children))
	copy(children, r.children)
	return children
}

// subtree returns this router and every descendant, depth-first.
func (r *Router) subtree() []*Router {
	nodes := []*Router{r}
	for _, child := range r.snapshotChildren() {
		nodes = append(nodes, child.subtree()...)
	}
	return nodes
}
