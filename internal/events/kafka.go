package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"loandesk/internal/platform/logger"
)

// DefaultDeliveryTimeout bounds how long one event may wait for the broker.
const DefaultDeliveryTimeout = 10 * time.Second

// Producer is the subset of *kgo.Client the publisher needs. TryProduce fails
// with kgo.ErrMaxBuffered instead of blocking when the client buffer is full.
type Producer interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaPublisher produces loan events asynchronously, keyed by user so one
// user's decisions stay ordered within a partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures the KafkaPublisher.
type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *KafkaPublisher) {
		p.metrics = m
	}
}

// WithDeliveryTimeout caps the time a record may spend buffered or in flight.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(p *KafkaPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewKafkaPublisher(producer Producer, topic string, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		timeout:  DefaultDeliveryTimeout,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishLoanDecided enqueues the event and returns without waiting for the
// broker acknowledgement. Only encoding failures are returned.
func (p *KafkaPublisher) PublishLoanDecided(ctx context.Context, evt LoanDecided) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode loan event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(evt.UserID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(TypeLoanDecided)},
		},
	}

	// The request context ends with the response; delivery must outlive it
	// but not the delivery timeout.
	produceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	p.producer.TryProduce(produceCtx, record, func(r *kgo.Record, err error) {
		defer cancel()
		if err != nil {
			p.metrics.IncPublishFailures()
			p.logger.ErrorContext(produceCtx, "failed to publish loan event",
				"loan_id", evt.LoanID,
				"topic", r.Topic,
				"error", err,
			)
			return
		}
		p.metrics.IncPublished()
	})
	return nil
}
