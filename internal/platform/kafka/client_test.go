package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"loandesk/internal/platform/config"
)

func TestNewProducer(t *testing.T) {
	t.Run("no brokers disables the producer", func(t *testing.T) {
		client, err := NewProducer(config.KafkaConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("records to an unreachable broker fail instead of hanging", func(t *testing.T) {
		client, err := NewProducer(config.KafkaConfig{
			Brokers:         []string{"127.0.0.1:1"},
			DecisionsTopic:  "loan.decisions",
			ClientID:        "loandesk-test",
			DeliveryTimeout: 300 * time.Millisecond,
		})
		require.NoError(t, err)
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		results := client.ProduceSync(ctx, &kgo.Record{Value: []byte("{}")})
		assert.Error(t, results.FirstErr())
	})
}
