package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
)

var (
	// processed is a singleton for the consumed-event counter vec.
	processed *prometheus.CounterVec //nolint:gochecknoglobals
)

// EventHandler consumes one decoded event.
type EventHandler interface {
	HandleEvent(event Event) error
}

// Consumer reads site events from the notification topic and hands them to
// an EventHandler.
type Consumer struct {
	reader  *kafka.Reader
	handler EventHandler
}

// NewConsumer builds a consumer from config. A disabled queue yields nil.
func NewConsumer(cfg config.Queue, handler EventHandler) *Consumer {
	if !cfg.Enabled {
		return nil
	}

	if processed == nil {
		processed = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_events_total",
				Help: "Number of consumed queue events, differentiated by result.",
			},
			[]string{"result"},
		)
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	}

	if cfg.Username != "" {
		readerConfig.Dialer = &kafka.Dialer{
			Timeout:   10 * time.Second, //nolint:mnd
			DualStack: true,
			TLS:       &tls.Config{MinVersion: tls.VersionTLS12},
			SASLMechanism: plain.Mechanism{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		}
	}

	return &Consumer{
		reader:  kafka.NewReader(readerConfig),
		handler: handler,
	}
}

// Listen consumes events until the context is canceled. Malformed messages
// and handler failures are logged and skipped; the loop keeps going.
func (c *Consumer) Listen(ctx context.Context) {
	if c == nil || c.reader == nil {
		return
	}

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}

			log.Error().Err(err).Msg("Failed to read queue message")
			processed.WithLabelValues("read_error").Inc()

			continue
		}

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Err(err).Str("key", string(msg.Key)).Msg("Malformed queue message, skipping")
			processed.WithLabelValues("malformed").Inc()

			continue
		}

		if err := c.handler.HandleEvent(event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Event handler failed")
			processed.WithLabelValues("handler_error").Inc()

			continue
		}

		processed.WithLabelValues("ok").Inc()
	}
}

// Close shuts the underlying reader down.
func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}

	return c.reader.Close()
}
