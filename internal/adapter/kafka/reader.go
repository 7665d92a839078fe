package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-derived-views/internal/config"
	"github.com/couchcryptid/quake-derived-views/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes raw feed refreshes from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
	})
	return &Reader{
		reader:        r,
		flushInterval: cfg.BatchFlushInterval,
		logger:        logger,
	}
}

// ExtractBatch fetches up to batchSize refreshes, returning early once the
// flush interval elapses so a quiet topic still yields partial batches.
// Offsets are committed individually through each refresh's Commit callback,
// not on fetch.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawRefresh, error) {
	batchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	batch := make([]domain.RawRefresh, 0, batchSize)
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(batchCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return batch, nil
			}
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			return batch, err
		}
		batch = append(batch, r.mapMessageToRawRefresh(msg))
	}
	return batch, nil
}

// Close shuts down the consumer group connection.
func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawRefresh converts a Kafka message into the domain envelope,
// wiring the commit callback to the consumer group offset commit.
func (r *Reader) mapMessageToRawRefresh(msg kafkago.Message) domain.RawRefresh {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawRefresh{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}
