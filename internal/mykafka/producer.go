package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const (
	CartTopic  = "cart_events"
	OrderTopic = "order_events"

	writeTimeout = 5 * time.Second
	// kafka-go waits up to BatchTimeout (1s by default) for a batch to fill
	// before a synchronous write returns.
	batchTimeout = 10 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events. After repeated write failures the breaker
// rejects calls until the broker recovers.
type Producer struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewProducer(brokers []string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		BatchTimeout:           batchTimeout,
	}
	return newProducer(w)
}

func newProducer(w messageWriter) *Producer {
	st := gobreaker.Settings{
		Name:    "kafka-producer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Default().Warn("breaker_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &Producer{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if m, ok := event.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			msg.Headers = []kafka.Header{{Key: "event_type", Value: []byte(t)}}
		}
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		return struct{}{}, p.writer.WriteMessages(wctx, msg)
	})
	if err != nil {
		return fmt.Errorf("kafka: publish to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
