package router

import (
	"github.com/vport-dev/vport/pkg/recognizer"
)

// childRouteParam is the binding name of the child-suffix segment
// appended to every component route for downward delegation.
const childRouteParam = "childRoute"

// DefaultViewportName is used when a viewport is registered without a name.
const DefaultViewportName = "default"

// Handler is the resolved descriptor a route activates.
type Handler struct {
	// Component names the component shown in the matched viewport.
	Component string
}

// Mapping is one route table entry. Exactly one of the handler forms
// (Component, ComponentFunc, Handler) or RedirectTo should be set;
// a mapping carrying both a redirect and a handler form is rejected.
type Mapping struct {
	// Path is the route template (e.g. "/users/:id").
	Path string

	// Component names a component directly.
	Component string

	// ComponentFunc defers handler resolution until configuration time.
	// It is invoked once, with no arguments, when the mapping is configured.
	ComponentFunc func() *Handler

	// Handler is an explicit, already-resolved descriptor.
	Handler *Handler

	// RedirectTo rewrites the path to another URL before matching.
	// Redirect mappings never produce a routable handler.
	RedirectTo string
}

// tableEntry is the payload registered with the recognizers.
type tableEntry struct {
	mapping *Mapping
	handler *Handler
}

// Match is the context of one recognized navigation: the matched table
// entry, its parameter bindings, the segment this router owns and the
// residual path destined for child routers.
type Match struct {
	// Mapping is the matched route table entry.
	Mapping *Mapping

	// Handler is the resolved descriptor for the matched route.
	Handler *Handler

	// Component is populated from the handler for downstream consumers.
	Component string

	// Params are the bound route parameters, including the child-suffix
	// binding for delegating matches.
	Params recognizer.Params

	// Segment is the canonical URL portion this router matched itself.
	Segment string

	// ChildPath is the residual path handed to child routers, without
	// its leading slash. Empty for fully-owned matches.
	ChildPath string
}

// sameAs reports whether two matches resolve to the same route state.
// Recognition allocates a fresh Match per call, so equality is structural:
// same table entry, same own segment, same residual and same bindings.
func (m *Match) sameAs(other *Match) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Mapping != other.Mapping || m.Segment != other.Segment || m.ChildPath != other.ChildPath {
		return false
	}
	if len(m.Params) != len(other.Params) {
		return false
	}
	for k, v := range m.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// rewrite is one from→to entry of the rewrite table.
type rewrite struct {
	from string
	to   string
}
