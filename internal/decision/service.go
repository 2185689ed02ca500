package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loandesk/internal/decision/metrics"
	"loandesk/internal/platform/logger"
	"loandesk/pkg/platform/sentinel"
)

// TTLPolicy sets how long each kind of decision stays cached.
type TTLPolicy struct {
	Rejection time.Duration
	Approval  time.Duration
	Error     time.Duration
}

// DefaultTTLPolicy: rejections 60s, approvals 300s, evaluation errors 10s.
var DefaultTTLPolicy = TTLPolicy{
	Rejection: 60 * time.Second,
	Approval:  300 * time.Second,
	Error:     10 * time.Second,
}

func (p TTLPolicy) forDecision(d Decision) time.Duration {
	if d.Approved {
		return p.Approval
	}
	return p.Rejection
}

// Service orchestrates cached loan decisions.
type Service struct {
	store   ApplicantStore
	cache   Cache
	ttl     TTLPolicy
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTTLPolicy(p TTLPolicy) Option {
	return func(s *Service) {
		s.ttl = p
	}
}

func New(store ApplicantStore, cache Cache, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("applicant store is required")
	}
	if cache == nil {
		return nil, errors.New("decision cache is required")
	}
	svc := &Service{
		store:  store,
		cache:  cache,
		ttl:    DefaultTTLPolicy,
		logger: logger.Discard(),
		tracer: otel.Tracer("loandesk/decision"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Evaluate returns the decision for req, serving it from cache when an
// unexpired entry exists. It never fails: internal faults yield the
// "Error processing application" rejection.
func (s *Service) Evaluate(ctx context.Context, req Request) Decision {
	ctx, span := s.tracer.Start(ctx, "decision.Evaluate",
		trace.WithAttributes(
			attribute.String("user_id", req.UserID),
			attribute.Float64("requested_amount", req.RequestedAmount),
			attribute.Int("duration", req.Duration),
		))
	defer span.End()

	key := CacheKey(req)
	if cached, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	start := time.Now()
	d, err := s.decide(ctx, req)
	ttl := s.ttl.forDecision(d)
	if err != nil {
		s.logger.ErrorContext(ctx, "decision evaluation failed",
			"user_id", req.UserID,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		d, ttl = errorDecision(), s.ttl.Error
	}

	s.remember(ctx, key, d, ttl)
	s.metrics.IncrementOutcome(string(d.Status))
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	span.SetAttributes(attribute.String("status", string(d.Status)))

	s.logger.DebugContext(ctx, "loan decision computed",
		"user_id", req.UserID,
		"status", d.Status,
		"reason", d.Reason,
	)
	return d
}

// decide fetches the applicant and runs the rules. A panic in either step is
// converted to an error.
func (s *Service) decide(ctx context.Context, req Request) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()

	applicant, err := s.store.FindApplicant(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return Decision{}, fmt.Errorf("fetch applicant: %w", err)
		}
		applicant, err = nil, nil
	}
	return EvaluateDecision(applicant, req.RequestedAmount), nil
}

func (s *Service) lookup(ctx context.Context, key string) (Decision, bool) {
	d, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncrementCacheLookup(metrics.CacheError)
		s.logger.WarnContext(ctx, "decision cache read failed", "key", key, "error", err)
		return Decision{}, false
	case ok:
		s.metrics.IncrementCacheLookup(metrics.CacheHit)
		return d, true
	default:
		s.metrics.IncrementCacheLookup(metrics.CacheMiss)
		return Decision{}, false
	}
}

func (s *Service) remember(ctx context.Context, key string, d Decision, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, d, ttl); err != nil {
		s.logger.WarnContext(ctx, "decision cache write failed", "key", key, "error", err)
	}
}
