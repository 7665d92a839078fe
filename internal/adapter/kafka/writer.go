package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-derived-views/internal/config"
	"github.com/couchcryptid/quake-derived-views/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces derived snapshots to the sink topic.
// It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot serializes and publishes one derived snapshot. Messages
// are keyed by horizon so consumers that only care about the latest view per
// horizon can rely on partition ordering.
func (w *Writer) PublishSnapshot(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeSnapshot(snap)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeSnapshot marshals a Snapshot into a Kafka message.
func serializeSnapshot(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Horizon),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "horizon", Value: []byte(snap.Horizon)},
			{Key: "produced_at", Value: []byte(snap.ProducedAt.Format(time.RFC3339))},
		},
	}, nil
}
