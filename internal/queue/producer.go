package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
)

const publishTimeout = 5 * time.Second

// Producer publishes site events to the notification topic.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a producer from config. A disabled queue yields a nil
// producer, which silently drops publishes so public endpoints keep working
// without a broker.
func NewProducer(cfg config.Queue) *Producer {
	if !cfg.Enabled {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second, //nolint:mnd
	}

	if cfg.Username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.Username,
				Password: cfg.Password,
			},
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &Producer{writer: writer}
}

// Publish sends one event to the topic, keyed by the event ID. Publishing on
// a nil producer is a no-op.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	if p == nil || p.writer == nil {
		log.Debug().Str("event_id", event.ID).Msg("Queue disabled, dropping event")
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
		Time:  event.OccurredAt,
	})
}

// Close shuts the underlying writer down.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}

	return p.writer.Close()
}
