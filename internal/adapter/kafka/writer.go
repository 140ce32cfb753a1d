package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes output records to a Kafka topic, one message per record
// keyed by APN. It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	runID  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic. runID is
// attached to every message as a header.
func NewWriter(cfg *config.Config, runID string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
	return &Writer{writer: w, runID: runID, logger: logger}
}

// Name implements pipeline.Loader.
func (w *Writer) Name() string { return "kafka" }

// Load serializes and publishes records in a single WriteMessages call.
// Records with the same APN always land on the same partition.
func (w *Writer) Load(ctx context.Context, records []domain.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], w.runID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", w.writer.Topic, err)
	}
	w.logger.Debug("records published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an OutputRecord into a Kafka message.
func serializeToMessage(rec domain.OutputRecord, runID string) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", rec.APN, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.APN),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "status", Value: []byte(rec.Status)},
		},
	}, nil
}
