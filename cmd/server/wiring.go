package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"loandesk/internal/decision"
	decisioncache "loandesk/internal/decision/cache"
	decisionmetrics "loandesk/internal/decision/metrics"
	"loandesk/internal/events"
	"loandesk/internal/health"
	loanhandler "loandesk/internal/loan/handler"
	loanmetrics "loandesk/internal/loan/metrics"
	loanservice "loandesk/internal/loan/service"
	loanstore "loandesk/internal/loan/store"
	"loandesk/internal/platform/config"
	"loandesk/internal/platform/kafka"
	platformmetrics "loandesk/internal/platform/metrics"
	"loandesk/internal/platform/middleware"
	"loandesk/internal/platform/postgres"
	redisclient "loandesk/internal/platform/redis"
	ratelimitmetrics "loandesk/internal/ratelimit/metrics"
	ratelimit "loandesk/internal/ratelimit/middleware"
	"loandesk/internal/ratelimit/store/bucket"
	"loandesk/pkg/platform/middleware/metadata"
	"loandesk/pkg/platform/middleware/requesttime"
)

const (
	decisionTopicPartitions  = 3
	decisionTopicReplication = 1
)

// applicationStore is satisfied by both loan store backends.
type applicationStore interface {
	loanservice.Store
	decision.ApplicantStore
	health.Pinger
}

type app struct {
	router  http.Handler
	db      *sql.DB
	redis   *redisclient.Client
	kafka   *kgo.Client
	closers []func()
}

func (a *app) close(log *slog.Logger) {
	for _, c := range a.closers {
		c()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn("close database", "error", err)
		}
	}
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{}
	bgCtx, cancel := context.WithCancel(ctx)
	a.closers = append(a.closers, cancel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := buildStore(ctx, cfg, log, a)
	if err != nil {
		a.close(log)
		return nil, err
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		a.close(log)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = rc

	cache, err := buildCache(bgCtx, cfg, rc, log)
	if err != nil {
		a.close(log)
		return nil, err
	}

	decisions, err := decision.New(store, cache,
		decision.WithLogger(log),
		decision.WithMetrics(decisionmetrics.New(reg)),
	)
	if err != nil {
		a.close(log)
		return nil, fmt.Errorf("build decision service: %w", err)
	}

	publisher, err := buildPublisher(ctx, cfg, log, reg, a)
	if err != nil {
		a.close(log)
		return nil, err
	}

	loans, err := loanservice.New(store, decisions,
		loanservice.WithLogger(log),
		loanservice.WithMetrics(loanmetrics.New(reg)),
		loanservice.WithPublisher(publisher),
	)
	if err != nil {
		a.close(log)
		return nil, fmt.Errorf("build loan service: %w", err)
	}

	limiter := buildRateLimiter(bgCtx, cfg, rc, log, reg)

	clientIP, err := metadata.NewResolver(cfg.TrustedProxies)
	if err != nil {
		a.close(log)
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	healthOpts := []health.Option{}
	if rc != nil {
		healthOpts = append(healthOpts, health.WithRedis(health.PingerFunc(rc.Health)))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(clientIP.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(platformmetrics.New(reg)))
	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	health.New(store, log, healthOpts...).Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(api chi.Router) {
		api.Use(limiter.RateLimit)
		api.Use(middleware.ContentTypeJSON)
		loanhandler.New(loans, log).Register(api)
	})

	a.router = r
	return a, nil
}

func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger, a *app) (applicationStore, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return loanstore.NewInMemory(), nil
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.db = db
	if err := loanstore.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("connected to postgres")
	return loanstore.NewPostgres(db), nil
}

func buildCache(ctx context.Context, cfg config.Server, rc *redisclient.Client, log *slog.Logger) (decision.Cache, error) {
	switch cfg.Decisions.CacheBackend {
	case config.CacheBackendRedis:
		if rc == nil {
			return nil, fmt.Errorf("decision cache %q requires REDIS_URL", cfg.Decisions.CacheBackend)
		}
		log.Info("decision cache backed by redis")
		return decisioncache.NewRedis(rc.Client), nil
	case config.CacheBackendMemory, "":
		mem := decisioncache.NewMemory()
		go mem.StartSweeper(ctx, cfg.Decisions.CacheSweepInterval)
		return mem, nil
	default:
		return nil, fmt.Errorf("unknown decision cache backend %q", cfg.Decisions.CacheBackend)
	}
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger, reg prometheus.Registerer, a *app) (loanservice.DecisionPublisher, error) {
	client, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Info("KAFKA_BROKERS not set, decision events disabled")
		return events.Noop{}, nil
	}
	a.kafka = client
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.DecisionsTopic, decisionTopicPartitions, decisionTopicReplication); err != nil {
		return nil, err
	}
	return events.NewKafkaPublisher(client, cfg.Kafka.DecisionsTopic,
		events.WithLogger(log),
		events.WithMetrics(events.NewMetrics(reg)),
		events.WithDeliveryTimeout(cfg.Kafka.DeliveryTimeout),
	), nil
}

func buildRateLimiter(ctx context.Context, cfg config.Server, rc *redisclient.Client, log *slog.Logger, reg prometheus.Registerer) *ratelimit.Middleware {
	local := bucket.NewInMemoryBucketStore()
	go local.StartCleanup(ctx, cfg.RateLimit.Window)

	opts := []ratelimit.Option{
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
		ratelimit.WithMetrics(ratelimitmetrics.New(reg)),
	}
	var primary ratelimit.BucketStore = local
	if rc != nil {
		primary = bucket.NewRedisBucketStore(rc.Client)
		opts = append(opts, ratelimit.WithFallback(local))
	}
	return ratelimit.New(primary, cfg.RateLimit.Requests, cfg.RateLimit.Window, log, opts...)
}
