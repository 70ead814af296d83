package router

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vport-dev/vport/pkg/routepath"
)

// Navigate resolves a URL into viewport activations across this router
// and its subtree, returning the canonical URL the tree settled on.
//
// The URL is canonicalized against the rewrite table, matched against the
// route table (falling back to the child-suffix table for partial
// ownership), then driven through the two-phase protocol: every viewport
// in the affected subtree votes, and only a unanimous vote commits.
//
// No-op outcomes return ("", nil): a URL neither table recognizes, a call
// while another navigation is pending on this router, and a re-navigation
// to the already-active route. A refusal anywhere in the subtree, whether
// during this router's vote or from a child while delegating the residual
// path, returns ErrNavigationCancelled.
func (r *Router) Navigate(ctx context.Context, target string) (string, error) {
	target = routepath.StripRelativeMarker(target)
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "router.navigate",
		trace.WithAttributes(attribute.String("nav.url", target)))
	defer span.End()

	r.mu.Lock()
	if r.state == stateNavigating {
		r.mu.Unlock()
		return r.settle(span, start, outcomeReentrant, ""), nil
	}

	url := r.applyRewrites(target)
	r.lastAttempt = url

	match, delegationOnly := r.recognizeLocked(url)
	if match == nil {
		r.mu.Unlock()
		r.logger.Debug("unroutable url", "url", url)
		return r.settle(span, start, outcomeUnroutable, ""), nil
	}

	if delegationOnly {
		// Pure delegation: this router's own segment is unchanged, so its
		// viewports neither re-vote nor re-activate; only the residual
		// path is handed to the children.
		r.state = stateNavigating
		r.mu.Unlock()

		childURL, err := r.navigateChildren(ctx, match)

		r.mu.Lock()
		r.state = stateIdle
		if err != nil {
			r.previousURL = url
			r.mu.Unlock()
			return "", r.cancelled(span, start, url)
		}
		settled := match.Segment + childURL
		r.previousURL = settled
		r.mu.Unlock()
		return r.settle(span, start, outcomeDelegated, settled), nil
	}

	if !r.dirty && match.sameAs(r.current) {
		r.mu.Unlock()
		return r.settle(span, start, outcomeNoop, ""), nil
	}

	previous := r.current
	r.state = stateNavigating
	r.current = match
	r.mu.Unlock()

	if !r.canNavigate(ctx, match) {
		r.mu.Lock()
		r.state = stateIdle
		r.current = previous
		// Remember the refused target so a later Renavigate retries it.
		r.previousURL = url
		r.mu.Unlock()
		return "", r.cancelled(span, start, url)
	}

	childURL, err := r.activatePorts(ctx, match)

	r.mu.Lock()
	r.state = stateIdle
	r.previousSegment = match.Segment
	if err != nil {
		// This router's own viewports committed, but a child refused its
		// share of the URL. The outcome is a cancellation: the refusal
		// reaches the caller and the attempt is remembered for Renavigate.
		r.previousURL = url
		r.mu.Unlock()
		return "", r.cancelled(span, start, url)
	}
	settled := match.Segment + childURL
	r.previousURL = settled
	r.dirty = false
	r.mu.Unlock()

	r.logger.Debug("navigation committed", "url", url, "settled", settled,
		"component", match.Component)
	return r.settle(span, start, outcomeCommitted, settled), nil
}

// Renavigate re-runs navigation against the best available prior target:
// the last successfully settled URL, else the last attempted one. It is a
// no-op while a navigation is pending or before any attempt was made.
func (r *Router) Renavigate(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.state == stateNavigating {
		r.mu.Unlock()
		return "", nil
	}
	target := r.previousURL
	if target == "" {
		target = r.lastAttempt
	}
	r.mu.Unlock()

	if target == "" {
		return "", nil
	}
	return r.Navigate(ctx, target)
}

// recognizeLocked matches a canonical URL against the primary table, then
// the child-suffix table. The second result reports pure delegation: a
// child-suffix match whose own segment equals the previously committed
// one, needing no new component boundary at this router.
//
// Callers must hold r.mu.
func (r *Router) recognizeLocked(url string) (*Match, bool) {
	if matches := r.own.Recognize(url); matches != nil {
		entry := matches[0].Route.Payload.(*tableEntry)
		return &Match{
			Mapping:   entry.mapping,
			Handler:   entry.handler,
			Component: entry.handler.Component,
			Params:    matches[0].Params,
			Segment:   url,
		}, false
	}

	matches := r.delegating.Recognize(url)
	if matches == nil {
		return nil, false
	}
	entry := matches[0].Route.Payload.(*tableEntry)
	childPath := matches[0].Params[childRouteParam]
	match := &Match{
		Mapping:   entry.mapping,
		Handler:   entry.handler,
		Component: entry.handler.Component,
		Params:    matches[0].Params,
		Segment:   strings.TrimSuffix(url, "/"+childPath),
		ChildPath: childPath,
	}
	return match, match.Segment == r.previousSegment
}

// cancelled finishes the span and metrics for a refused navigation and
// returns ErrNavigationCancelled.
func (r *Router) cancelled(span trace.Span, start time.Time, url string) error {
	span.SetStatus(codes.Error, "navigation cancelled")
	r.logger.Info("navigation cancelled", "url", url)
	r.settle(span, start, outcomeCancelled, "")
	return ErrNavigationCancelled
}

// settle finishes the span and metrics for one navigation outcome and
// returns the settled URL unchanged.
func (r *Router) settle(span trace.Span, start time.Time, outcome, settled string) string {
	span.SetAttributes(attribute.String("nav.outcome", outcome))
	if settled != "" {
		span.SetAttributes(attribute.String("nav.settled", settled))
	}
	recordNavigation(outcome, time.Since(start))
	return settled
}
