package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"loandesk/internal/ratelimit/metrics"
	"loandesk/internal/ratelimit/models"
	"loandesk/pkg/platform/httputil"
	metadata "loandesk/pkg/platform/middleware/metadata"
	"loandesk/pkg/requestcontext"
)

// BucketStore is a sliding-window counter keyed by client.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Middleware enforces a per-IP request budget over a sliding window.
type Middleware struct {
	store    BucketStore
	fallback BucketStore
	breaker  *storeBreaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback sets the store used while the primary store is failing.
func WithFallback(store BucketStore) Option {
	return func(m *Middleware) {
		m.fallback = store
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(store BucketStore, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:   store,
		breaker: &storeBreaker{},
		limit:   limit,
		window:  window,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit rejects requests beyond the budget with 429. Limiter failures
// let the request through.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = metadata.RemoteIP(r)
		}

		result, degraded := m.check(ctx, "ip:"+ip)
		if result == nil {
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}

		if !result.Allowed {
			m.metrics.IncrementRejected()
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", ip,
			)
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// check consults the primary store, switching to the fallback while the
// circuit is open. A nil result means no limiter could answer.
func (m *Middleware) check(ctx context.Context, key string) (*models.RateLimitResult, bool) {
	result, err := m.store.Allow(ctx, key, m.limit, m.window)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to check rate limit", "error", err)
	}
	if tripped := m.breaker.observe(err); !tripped {
		if err != nil {
			return nil, false
		}
		return result, false
	}

	if m.fallback == nil {
		return result, false
	}
	m.metrics.IncrementDegraded()
	fallback, err := m.fallback.Allow(ctx, key, m.limit, m.window)
	if err != nil {
		return nil, true
	}
	return fallback, true
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP, please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
