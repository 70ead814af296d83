// Package host bridges a router tree to clients over websocket.
//
// A client sends navigation frames and receives the outcome of each:
//
//	-> {"op": "navigate", "url": "/users/42"}
//	<- {"op": "settled", "url": "/users/42"}
//
// A refused navigation answers {"op": "rejected"}; a URL no route table
// recognizes, or a repeat of the active route, answers {"op": "noop"}.
// Malformed input answers {"op": "error"} with a reason and keeps the
// connection open.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vport-dev/vport/pkg/routepath"
	"github.com/vport-dev/vport/pkg/router"
)

// Frame ops exchanged over the wire.
const (
	OpNavigate = "navigate"
	OpSettled  = "settled"
	OpRejected = "rejected"
	OpNoop     = "noop"
	OpError    = "error"
)

// Frame is one websocket message in either direction.
type Frame struct {
	Op    string `json:"op"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Host serves a router tree over HTTP: a websocket navigation endpoint,
// a Prometheus metrics endpoint and a health check.
type Host struct {
	router   *router.Router
	config   *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a Host driving the given root router. A nil config uses
// DefaultConfig.
func New(r *router.Router, cfg *Config) *Host {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Host{
		router: r,
		config: cfg,
		logger: slog.Default().With("component", "host"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// Handler returns the HTTP handler: /ws for navigation, /metrics for
// Prometheus scrapes, /healthz for liveness.
func (h *Host) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Get("/ws", h.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (h *Host) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.config.Address,
		Handler: h.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("listening", "address", h.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (h *Host) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(h.config.MaxMessageSize)
	h.logger.Info("client connected", "remote", conn.RemoteAddr())

	for {
		_ = conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger.Error("read error", "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			h.send(conn, Frame{Op: OpError, Error: "malformed frame"})
			continue
		}

		switch frame.Op {
		case OpNavigate:
			h.send(conn, h.navigate(r.Context(), frame.URL))
		default:
			h.send(conn, Frame{Op: OpError, Error: "unknown op: " + frame.Op})
		}
	}
}

// navigate validates one client-supplied URL and drives the root router.
func (h *Host) navigate(ctx context.Context, raw string) Frame {
	path, _ := routepath.SplitPathAndQuery(raw)
	if err := routepath.ValidateNavPath(path); err != nil {
		h.logger.Warn("rejected nav path", "url", raw, "error", err)
		return Frame{Op: OpError, Error: err.Error()}
	}

	settled, err := h.router.Navigate(ctx, path)
	switch {
	case errors.Is(err, router.ErrNavigationCancelled):
		return Frame{Op: OpRejected, URL: path}
	case err != nil:
		return Frame{Op: OpError, Error: err.Error()}
	case settled == "":
		return Frame{Op: OpNoop}
	default:
		return Frame{Op: OpSettled, URL: settled}
	}
}

func (h *Host) send(conn *websocket.Conn, frame Frame) {
	_ = conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Error("write error", "error", err)
	}
}
