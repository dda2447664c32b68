// Package events publica los eventos de stock en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/pkg/config"
)

// EventMovementRecorded tipo del evento (header "event-type").
const EventMovementRecorded = "stock.movement_recorded"

var _ stock.EventPublisher = (*Publisher)(nil)

// MessageWriter subconjunto de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publica MovementRecordedEvent como JSON. La key es el SKU para que los
// movimientos de un mismo producto caigan en la misma partición y conserven el orden.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher crea un publisher con un kafka.Writer hacia cfg.Brokers / cfg.Topic.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	return NewPublisherWithWriter(NewWriter(cfg))
}

// NewWriter arma el writer síncrono. Cada commit publica un solo mensaje, así que
// BatchTimeout acota la espera del request (el default de kafka-go es 1s).
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
		WriteTimeout: 5 * time.Second,
	}
}

// NewPublisherWithWriter permite inyectar el writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

// PublishMovementRecorded serializa y escribe el evento.
func (p *Publisher) PublishMovementRecorded(ctx context.Context, event stock.MovementRecordedEvent) error {
	msg, err := encodeMovementRecorded(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", EventMovementRecorded, err)
	}
	return nil
}

// Close cierra el writer (flush de mensajes pendientes).
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeMovementRecorded(event stock.MovementRecordedEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", EventMovementRecorded, err)
	}
	return kafka.Message{
		Key:   []byte(event.ProductSKU),
		Value: data,
		Time:  event.RecordedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventMovementRecorded)},
		},
	}, nil
}
