package router

import "errors"

// Sentinel errors for navigation and configuration.
var (
	// ErrNavigationCancelled is returned when a viewport anywhere in the
	// affected subtree refuses deactivation or activation. The previous
	// route state is preserved and the attempted URL is remembered for a
	// later Renavigate.
	ErrNavigationCancelled = errors.New("router: navigation cancelled")

	// ErrAmbiguousMapping is returned by Configure for a mapping that
	// carries both a redirect target and a handler form.
	ErrAmbiguousMapping = errors.New("router: mapping has both redirect and handler")
)
