package router

import (
	"context"
	"testing"

	"github.com/vport-dev/vport/pkg/recognizer"
)

func TestGenerateOwnRoute(t *testing.T) {
	r := New()
	mustConfigure(t, r, Mapping{Path: "/users/:id", Component: "UserDetail"})

	got := r.Generate("UserDetail", recognizer.Params{"id": "42"})
	if got != "/users/42" {
		t.Errorf("Generate = %q, want %q", got, "/users/42")
	}
}

func TestGenerateMissingParam(t *testing.T) {
	r := New()
	mustConfigure(t, r, Mapping{Path: "/users/:id", Component: "UserDetail"})

	if got := r.Generate("UserDetail", nil); got != "" {
		t.Errorf("Generate = %q, want empty for a missing parameter", got)
	}
}

func TestGenerateUnknownName(t *testing.T) {
	r := New()
	mustConfigure(t, r, Mapping{Path: "/users", Component: "UserList"})

	if got := r.Generate("Nope", nil); got != "" {
		t.Errorf("Generate = %q, want empty for an unknown name", got)
	}
}

func TestGeneratePrefixesAncestorSegments(t *testing.T) {
	ctx := context.Background()
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child, Mapping{Path: "/list", Component: "List"})

	if _, err := parent.Navigate(ctx, "/app/list"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if got := child.Generate("List", nil); got != "/app/list" {
		t.Errorf("child Generate(List) = %q, want %q", got, "/app/list")
	}
}

func TestGenerateWalksUpForAncestorRoute(t *testing.T) {
	parent := New()
	mustConfigure(t, parent, Mapping{Path: "/app", Component: "App"})

	child := parent.ChildRouter()
	mustConfigure(t, child, Mapping{Path: "/list", Component: "List"})

	// The name lives on the parent; the child delegates upward and the
	// parent itself has no ancestors to prefix.
	if got := child.Generate("App", nil); got != "/app" {
		t.Errorf("child Generate(App) = %q, want %q", got, "/app")
	}
}
