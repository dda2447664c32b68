package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/events"
	"github.com/caioaugustofs/api-vendas/pkg/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_PublishMovementRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisherWithWriter(w)
	recordedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.PublishMovementRecorded(context.Background(), stock.MovementRecordedEvent{
		MovementID:   "m-1",
		Kind:         "outbound",
		ProductSKU:   "ABC123",
		Quantity:     4,
		BalanceAfter: 6,
		OccurredAt:   recordedAt,
		RecordedAt:   recordedAt,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "ABC123", string(msg.Key))
	assert.Equal(t, recordedAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, events.EventMovementRecorded, string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "m-1", body["movement_id"])
	assert.Equal(t, "outbound", body["kind"])
	assert.EqualValues(t, 4, body["quantity"])
	assert.EqualValues(t, 6, body["balance_after"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_ErrorDelWriter(t *testing.T) {
	boom := errors.New("broker caído")
	p := events.NewPublisherWithWriter(&fakeWriter{err: boom})
	err := p.PublishMovementRecorded(context.Background(), stock.MovementRecordedEvent{ProductSKU: "ABC123"})
	require.ErrorIs(t, err, boom)
}

func TestNewWriter_LoteCorto(t *testing.T) {
	w := events.NewWriter(config.KafkaConfig{Brokers: []string{"k1:9092"}, Topic: "stock"})
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, "stock", w.Topic)

	w = events.NewWriter(config.KafkaConfig{Brokers: []string{"k1:9092"}, BatchTimeout: time.Millisecond})
	assert.Equal(t, time.Millisecond, w.BatchTimeout)
}
