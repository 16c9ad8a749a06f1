// Package kafka publishes per-event summaries to a Kafka topic so
// downstream dashboards can pick them up without re-running the batch.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/heliophys/cme-kinematics/internal/config"
	"github.com/heliophys/cme-kinematics/internal/domain"
)

// Publisher produces event-summary messages to the configured topic.
// It implements pipeline.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes all event summaries in a
// single WriteMessages call.
func (p *Publisher) PublishSummaries(ctx context.Context, summaries []domain.EventSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	p.logger.Info("published event summaries", "count", len(summaries))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an EventSummary into a Kafka message keyed
// by event identifier.
func serializeToMessage(sum domain.EventSummary) (kafkago.Message, error) {
	data, err := json.Marshal(sum)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sum.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(sum.EventID)},
			{Key: "processed_at", Value: []byte(sum.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
