// Package recognizer matches URL paths against registered route templates.
//
// Templates are plain paths with two kinds of dynamic segments:
//
//	:name   parameter segment, binds exactly one path segment
//	*name   catch-all segment, binds the joined remainder of the path
//
// Routes may carry a name and an arbitrary payload; named routes support
// reverse generation via Generate. The recognizer is synchronous and not
// safe for concurrent mutation; callers own synchronization.
package recognizer

import (
	"errors"
	"fmt"
	"strings"
)

// Params holds parameter bindings extracted from a recognized path.
type Params map[string]string

// Route is a template registered with the recognizer.
type Route struct {
	// Path is the template (e.g. "/users/:id", "/app/*rest").
	Path string

	// Name identifies the route for HasRoute and Generate. Optional.
	Name string

	// Payload is opaque caller data returned with a match.
	Payload any
}

// Match is one recognized route with its parameter bindings.
type Match struct {
	Route  *Route
	Params Params
}

// ErrUnknownRoute is returned by Generate for an unregistered name.
var ErrUnknownRoute = errors.New("recognizer: unknown route name")

// Recognizer maps concrete paths to registered routes.
type Recognizer struct {
	root  *node
	names map[string]*Route
}

// New creates an empty recognizer.
func New() *Recognizer {
	return &Recognizer{
		root:  &node{},
		names: make(map[string]*Route),
	}
}

// Add registers routes. Re-registering a name replaces the prior
// named entry for Generate; both templates remain matchable.
func (r *Recognizer) Add(routes ...Route) {
	for i := range routes {
		rt := routes[i]
		leaf := r.root.insert(rt.Path)
		leaf.route = &rt
		if rt.Name != "" {
			r.names[rt.Name] = &rt
		}
	}
}

// Recognize matches a concrete path against the registered templates.
// It returns the ordered match list, or nil when the path is unroutable.
func (r *Recognizer) Recognize(path string) []Match {
	params := make(Params)
	leaf, ok := r.root.match(splitPath(path), params)
	if !ok {
		return nil
	}
	return []Match{{Route: leaf.route, Params: params}}
}

// HasRoute reports whether a route with the given name is registered.
func (r *Recognizer) HasRoute(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Generate expands the named route template with the given params.
func (r *Recognizer) Generate(name string, params Params) (string, error) {
	rt, ok := r.names[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	segments := splitPath(rt.Path)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			v, ok := params[seg[1:]]
			if !ok {
				return "", fmt.Errorf("recognizer: missing parameter %q for route %q", seg[1:], name)
			}
			out = append(out, v)
		case strings.HasPrefix(seg, "*"):
			if v := params[seg[1:]]; v != "" {
				out = append(out, v)
			}
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

// node is a node in the template trie.
type node struct {
	// segment is the static path segment this node matches
	segment string

	// paramName is the binding name for param and catch-all nodes
	paramName string

	// route is set on leaves that terminate a registered template
	route *Route

	// children are static segment children
	children []*node

	// paramChild is the dynamic parameter child (:name)
	paramChild *node

	// catchAllChild is the catch-all child (*name)
	catchAllChild *node
}

// findChild finds a static child with an exact segment match.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// insert adds a template to the trie and returns its leaf node.
func (n *node) insert(path string) *node {
	current := n
	for _, seg := range splitPath(path) {
		switch {
		case strings.HasPrefix(seg, "*"):
			// Catch-all consumes the rest of the template.
			if current.catchAllChild == nil {
				current.catchAllChild = &node{paramName: seg[1:]}
			}
			return current.catchAllChild
		case strings.HasPrefix(seg, ":"):
			if current.paramChild == nil {
				current.paramChild = &node{paramName: seg[1:]}
			}
			current = current.paramChild
		default:
			child := current.findChild(seg)
			if child == nil {
				child = &node{segment: seg}
				current.children = append(current.children, child)
			}
			current = child
		}
	}
	return current
}

// match walks the trie for the given segments, binding params as it goes.
func (n *node) match(segments []string, params Params) (*node, bool) {
	if len(segments) == 0 {
		if n.route != nil {
			return n, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	// Exact match first.
	if child := n.findChild(segment); child != nil {
		if leaf, ok := child.match(remaining, params); ok {
			return leaf, true
		}
	}

	// Parameter match, with backtracking on failure.
	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if leaf, ok := n.paramChild.match(remaining, params); ok {
			return leaf, true
		}
		delete(params, n.paramChild.paramName)
	}

	// Catch-all binds the joined remainder.
	if n.catchAllChild != nil && n.catchAllChild.route != nil {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild, true
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
