package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends for loan decisions.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	DatabaseURL string
	// TrustedProxies lists proxy addresses or CIDRs whose forwarding headers are honored.
	TrustedProxies []string

	Redis     RedisConfig
	Decisions DecisionConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

// RedisConfig configures the optional Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DecisionConfig selects and tunes the decision cache.
type DecisionConfig struct {
	CacheBackend       string
	CacheSweepInterval time.Duration
}

// KafkaConfig configures decision event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers         []string
	DecisionsTopic  string
	ClientID        string
	DeliveryTimeout time.Duration
}

// RateLimitConfig configures the per-IP API limiter.
type RateLimitConfig struct {
	Disabled bool
	Requests int
	Window   time.Duration
}

// IsProduction reports whether the service runs in production mode.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	_ = godotenv.Load()

	cfg := Server{
		Addr:           getEnv("SERVER_ADDR", ":8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Decisions: DecisionConfig{
			CacheBackend:       strings.ToLower(getEnv("DECISION_CACHE", CacheBackendMemory)),
			CacheSweepInterval: getDuration("DECISION_CACHE_SWEEP_INTERVAL", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(os.Getenv("KAFKA_BROKERS")),
			DecisionsTopic:  getEnv("KAFKA_DECISIONS_TOPIC", "loan.decisions"),
			ClientID:        getEnv("KAFKA_CLIENT_ID", "loandesk"),
			DeliveryTimeout: getDuration("KAFKA_DELIVERY_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Disabled: os.Getenv("RATE_LIMIT_DISABLED") == "true",
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
