package mq

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerAppliesRetrySettings(t *testing.T) {
	producer := NewProducer(Config{
		Brokers:      []string{"localhost:9092"},
		MaxRetries:   5,
		RetryBackoff: 100,
	})
	t.Cleanup(func() { producer.Close() })

	assert.Equal(t, 5, producer.writer.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, producer.writer.WriteBackoffMin,
		"RetryBackoff is configured in milliseconds")
	assert.Equal(t, time.Second, producer.writer.WriteBackoffMax)
	assert.Equal(t, kafka.RequireAll, producer.writer.RequiredAcks)
}

func TestNewConsumerAppliesGroupSettings(t *testing.T) {
	consumer := NewConsumer(Config{
		Brokers: []string{"localhost:9092"},
		GroupID: "merchant-analytics",
	}, "merchant.analytics.events")
	t.Cleanup(func() { consumer.Close() })

	cfg := consumer.reader.Config()
	assert.Equal(t, "merchant.analytics.events", cfg.Topic)
	assert.Equal(t, "merchant-analytics", cfg.GroupID)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
}

func TestMessageUnmarshalPayload(t *testing.T) {
	msg := &Message{Value: []byte(`{"event_type":"page_view","event_name":"home"}`)}

	var payload struct {
		EventType string `json:"event_type"`
		EventName string `json:"event_name"`
	}
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "page_view", payload.EventType)
	assert.Equal(t, "home", payload.EventName)

	msg.Value = []byte("not json")
	assert.Error(t, msg.UnmarshalPayload(&payload))
}
