// Package routepath holds path hygiene helpers shared by the navigation
// engine and the websocket host. Canonicalization proper (the rewrite
// table) belongs to the router; this package only strips markers, splits
// queries and rejects hostile input.
package routepath

import (
	"errors"
	"strings"
)

// Navigation path errors.
var (
	ErrInvalidPath     = errors.New("routepath: invalid path")
	ErrBackslashInPath = errors.New("routepath: path contains backslash")
	ErrNullByteInPath  = errors.New("routepath: path contains null byte")
)

// StripRelativeMarker removes a single leading "./" marker, if present.
func StripRelativeMarker(path string) string {
	return strings.TrimPrefix(path, "./")
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// ValidateNavPath validates an externally supplied navigation path.
//
// The path must be relative to the application root:
//   - MUST start with "/" (after an optional "./" marker)
//   - MUST NOT be a full URL (no "http://", "https://", "//")
//
// Paths containing backslashes or NUL bytes are rejected outright.
func ValidateNavPath(path string) error {
	if strings.Contains(path, "\\") {
		return ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return ErrNullByteInPath
	}

	// SECURITY: Reject absolute URLs to prevent open-redirect style input.
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return ErrInvalidPath
	}

	if !strings.HasPrefix(StripRelativeMarker(path), "/") {
		return ErrInvalidPath
	}
	return nil
}
