package routepath

import (
	"errors"
	"testing"
)

func TestStripRelativeMarker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./users", "users"},
		{"/users", "/users"},
		{"././users", "./users"}, // only one marker is stripped
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripRelativeMarker(tt.in); got != tt.want {
			t.Errorf("StripRelativeMarker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitPathAndQuery(t *testing.T) {
	path, query := SplitPathAndQuery("/users?sort=asc")
	if path != "/users" || query != "sort=asc" {
		t.Errorf("SplitPathAndQuery = (%q, %q), want (%q, %q)", path, query, "/users", "sort=asc")
	}

	path, query = SplitPathAndQuery("/users")
	if path != "/users" || query != "" {
		t.Errorf("SplitPathAndQuery = (%q, %q), want (%q, %q)", path, query, "/users", "")
	}
}

func TestValidateNavPath(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"/users", nil},
		{"./users", ErrInvalidPath},
		{"./" + "/users", nil},
		{"users", ErrInvalidPath},
		{"https://evil.example/x", ErrInvalidPath},
		{"//evil.example/x", ErrInvalidPath},
		{"/a\\b", ErrBackslashInPath},
		{"/a\x00b", ErrNullByteInPath},
		{"/a%00b", ErrNullByteInPath},
	}
	for _, tt := range tests {
		err := ValidateNavPath(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateNavPath(%q) = %v, want %v", tt.in, err, tt.wantErr)
		}
	}
}
