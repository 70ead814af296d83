// Package router resolves URLs into component activations for a tree of
// named viewports, coordinated across a hierarchy of cooperating routers.
//
// Each router owns a route table, a rewrite (redirect) table and a map of
// named viewports. Navigation is a two-phase protocol: a permission phase
// gathers one vote per viewport across the whole affected subtree, and
// only when every vote is affirmative does the commit phase activate
// viewports and delegate any residual path to child routers.
//
// # Routes
//
// Routes are configured as mappings that either name a component or
// redirect to another path:
//
//	r := router.New()
//	err := r.Configure(ctx,
//	    router.Mapping{Path: "/", RedirectTo: "/users"},
//	    router.Mapping{Path: "/users", Component: "UserList"},
//	)
//
// Every component route is additionally registered with a trailing
// child-suffix template ("/users/*childRoute"), so a router that owns a
// prefix of the URL can hand the remainder down to its children.
//
// # Viewports
//
// A viewport is any value registered under a name. Lifecycle participation
// is opt-in: the router probes each viewport for the capability interfaces
// (CanReactivate, CanDeactivate, CanActivate, Instantiate, Load,
// Deactivate, Activate, Reactivate) and treats a missing capability as an
// implicit approval or no-op.
//
// # Navigation
//
//	settled, err := r.Navigate(ctx, "/")
//	// settled == "/users" with the example table above
//
// Navigate returns the canonical URL the router tree settled on. No-op
// outcomes (unroutable URL, re-entrant call, re-navigation to the active
// route) return an empty string and a nil error. A permission refusal
// anywhere in the subtree cancels the whole navigation, preserves the
// previous state and returns ErrNavigationCancelled.
//
// Registering routes or viewports after the fact triggers an automatic
// re-navigation to the best known prior URL, so late configuration
// converges without an explicit Navigate call.
package router
