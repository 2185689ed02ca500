// Package health serves the liveness and dependency probe.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"loandesk/pkg/platform/httputil"
)

const probeTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Response is the body of GET /health.
type Response struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler struct {
	database Pinger
	redis    Pinger
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Handler)

// WithRedis adds Redis to the probe.
func WithRedis(p Pinger) Option {
	return func(h *Handler) {
		h.redis = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

func New(database Pinger, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{database: database, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when every dependency responds, 503 otherwise.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := Response{
		Status:    "OK",
		Message:   "Loan decision service is running",
		Database:  "Connected",
		Timestamp: h.now().UTC(),
	}
	healthy := true

	if err := h.database.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed", "error", err)
		resp.Database = "Disconnected"
		healthy = false
	}
	if h.redis != nil {
		resp.Redis = "Connected"
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "redis health check failed", "error", err)
			resp.Redis = "Disconnected"
			healthy = false
		}
	}

	if !healthy {
		resp.Status = "ERROR"
		resp.Message = "Service unavailable"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
