package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vport-dev/vport/pkg/host"
	"github.com/vport-dev/vport/pkg/router"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application over websocket",
		Long: `Serve a demo router tree: "/" redirects to "/users", "/app"
owns a child router with "/list" and "/detail", and every viewport logs
its activations. Navigation frames arrive on /ws; Prometheus metrics
are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")

	return cmd
}

func runServe(addr string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	router.EnableMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := demoRouter(ctx, logger)
	if err != nil {
		return err
	}

	h := host.New(root, host.DefaultConfig().WithAddress(addr))
	return h.ListenAndServe(ctx)
}

// demoRouter wires the demo tree: a root owning /users, /projects and
// /app, with a child router under /app owning /list and /detail.
func demoRouter(ctx context.Context, logger *slog.Logger) (*router.Router, error) {
	root := router.New(router.WithLogger(logger))
	err := root.Configure(ctx,
		router.Mapping{Path: "/users", Component: "UserList"},
		router.Mapping{Path: "/users/:id", Component: "UserDetail"},
		router.Mapping{Path: "/projects", Component: "ProjectList"},
		router.Mapping{Path: "/app", Component: "App"},
		router.Mapping{Path: "/", RedirectTo: "/users"},
	)
	if err != nil {
		return nil, err
	}
	root.RegisterViewport(ctx, &loggingViewport{name: "root", logger: logger}, "")

	child := root.ChildRouter()
	err = child.Configure(ctx,
		router.Mapping{Path: "/list", Component: "List"},
		router.Mapping{Path: "/detail", Component: "Detail"},
	)
	if err != nil {
		return nil, err
	}
	child.RegisterViewport(ctx, &loggingViewport{name: "app", logger: logger}, "")

	return root, nil
}

// loggingViewport logs every lifecycle call it receives.
type loggingViewport struct {
	name   string
	logger *slog.Logger
}

func (v *loggingViewport) Instantiate(m *router.Match) {
	v.logger.Info("instantiate", "viewport", v.name, "component", m.Component)
}

func (v *loggingViewport) Load(ctx context.Context, m *router.Match) error {
	v.logger.Info("load", "viewport", v.name, "component", m.Component, "params", m.Params)
	return nil
}

func (v *loggingViewport) Deactivate(m *router.Match) {
	v.logger.Info("deactivate", "viewport", v.name, "component", m.Component)
}

func (v *loggingViewport) Activate(m *router.Match) {
	v.logger.Info("activate", "viewport", v.name, "component", m.Component, "params", m.Params)
}
