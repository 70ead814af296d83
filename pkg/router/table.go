package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/vport-dev/vport/pkg/recognizer"
)

// Configure registers route mappings on this router.
//
// A mapping with RedirectTo extends the rewrite table and produces no
// routable handler. Any other mapping resolves its handler descriptor
// (Component name, then deferred ComponentFunc, then explicit Handler,
// then the literal Component field as a fallback), registers the template
// keyed by the component name, and registers a child-suffix twin carrying
// a copy of the full mapping so a partially-matched URL can still resolve
// a component here and hand the remainder to child routers.
//
// Configuration triggers an automatic re-navigation to the best known
// prior URL; its outcome is logged, not returned.
func (r *Router) Configure(ctx context.Context, mappings ...Mapping) error {
	r.mu.Lock()
	for i := range mappings {
		m := mappings[i]

		if m.RedirectTo != "" {
			if m.Component != "" || m.ComponentFunc != nil || m.Handler != nil {
				r.mu.Unlock()
				return fmt.Errorf("%w: %q", ErrAmbiguousMapping, m.Path)
			}
			r.rewrites = append(r.rewrites, rewrite{from: m.Path, to: m.RedirectTo})
			continue
		}

		handler := resolveHandler(&m)
		owned := m
		owned.Handler = handler
		r.own.Add(recognizer.Route{
			Path:    owned.Path,
			Name:    handler.Component,
			Payload: &tableEntry{mapping: &owned, handler: handler},
		})

		// Child-suffix twin with a copy of the full mapping.
		delegated := owned
		r.delegating.Add(recognizer.Route{
			Path:    strings.TrimSuffix(owned.Path, "/") + "/*" + childRouteParam,
			Name:    handler.Component,
			Payload: &tableEntry{mapping: &delegated, handler: handler},
		})
	}
	r.dirty = true
	r.mu.Unlock()

	if _, err := r.Renavigate(ctx); err != nil {
		r.logger.Warn("renavigation after configuration cancelled", "error", err)
	}
	return nil
}

// resolveHandler normalizes a mapping into its handler descriptor.
func resolveHandler(m *Mapping) *Handler {
	switch {
	case m.Component != "":
		return &Handler{Component: m.Component}
	case m.ComponentFunc != nil:
		if h := m.ComponentFunc(); h != nil {
			return h
		}
	case m.Handler != nil:
		return m.Handler
	}
	return &Handler{Component: m.Component}
}

// applyRewrites canonicalizes a URL against the rewrite table, applying
// every rule in registration order. The root rule ("/") only rewrites the
// whole URL on an exact match; any other rule whose source is a prefix of
// the URL replaces its first occurrence.
//
// Callers must hold r.mu.
func (r *Router) applyRewrites(url string) string {
	for _, rw := range r.rewrites {
		if rw.from == "/" {
			if url == "/" {
				url = rw.to
			}
			continue
		}
		if strings.HasPrefix(url, rw.from) {
			url = strings.Replace(url, rw.from, rw.to, 1)
		}
	}
	return url
}

// Generate produces an absolute-from-root URL for a named component.
// It walks upward from this router until an ancestor owns a route with
// that name, expands the template with params, and prefixes the last
// committed segment of every strict ancestor of the owning router. The
// empty string is returned when the name is unknown anywhere in the
// ancestor chain or a required parameter is missing.
//
// Known limitation: ancestor prefixes come from each ancestor's last
// committed navigation, so Generate is unreliable before the first
// navigation has settled.
func (r *Router) Generate(name string, params recognizer.Params) string {
	owner := r
	for owner != nil && !owner.hasOwnRoute(name) {
		owner = owner.parent
	}
	if owner == nil {
		return ""
	}

	owner.mu.Lock()
	path, err := owner.own.Generate(name, params)
	owner.mu.Unlock()
	if err != nil {
		r.logger.Warn("reverse generation failed", "name", name, "error", err)
		return ""
	}

	for a := owner.parent; a != nil; a = a.parent {
		path = a.committedSegment() + path
	}
	return path
}

// hasOwnRoute reports whether this router's primary table names a route.
func (r *Router) hasOwnRoute(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.own.HasRoute(name)
}

// committedSegment returns the router's last committed own segment.
func (r *Router) committedSegment() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.previousSegment
}
