// Package kafka publishes assessment summary events to the sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tbphil/final-ACCLIMATE/internal/config"
	"github.com/tbphil/final-ACCLIMATE/internal/domain"
)

// Writer produces assessment summaries to a Kafka topic.
// It implements service.SummaryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers()...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one assessment summary.
func (w *Writer) PublishSummary(ctx context.Context, summary domain.AssessmentSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AssessmentSummary into a Kafka message.
func serializeToMessage(summary domain.AssessmentSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sector", Value: []byte(summary.Sector)},
			{Key: "hazard", Value: []byte(summary.Hazard)},
			{Key: "computed_at", Value: []byte(summary.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
