//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/heliophys/cme-kinematics/internal/adapter/kafka"
	"github.com/heliophys/cme-kinematics/internal/config"
	"github.com/heliophys/cme-kinematics/internal/domain"
)

const testSummaryTopic = "test-cme-event-summaries"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka spins up a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishSummaries verifies that event summaries round-trip through a
// real broker with the expected key, headers, and payload fields.
func TestPublishSummaries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}

	processedAt := time.Date(2022, time.March, 17, 6, 0, 0, 0, time.UTC)
	summaries := []domain.EventSummary{
		{
			EventID:             "id01",
			Samples:             6,
			MeanAngularWidthDeg: 32.5,
			MeanExpansionRate:   21.0,
			MeanSpeedKms:        450.0,
			FitSlope:            21.0,
			FitIntercept:        10.4,
			ProcessedAt:         processedAt,
		},
		{
			EventID:             "id02",
			Samples:             5,
			MeanAngularWidthDeg: 28.1,
			MeanExpansionRate:   17.3,
			MeanSpeedKms:        380.0,
			FitSlope:            17.3,
			FitIntercept:        8.9,
			ProcessedAt:         processedAt,
		},
	}

	pub := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = pub.Close() })

	require.NoError(t, pub.PublishSummaries(ctx, summaries))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := map[string]domain.EventSummary{}
	for len(received) < len(summaries) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from summary topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, string(msg.Key), headers["event_id"])
		_, err = time.Parse(time.RFC3339, headers["processed_at"])
		assert.NoError(t, err, "processed_at should be valid RFC3339")

		var sum domain.EventSummary
		require.NoError(t, json.Unmarshal(msg.Value, &sum), "unmarshal summary")
		assert.Equal(t, string(msg.Key), sum.EventID)
		received[sum.EventID] = sum
	}

	for _, want := range summaries {
		got, ok := received[want.EventID]
		require.True(t, ok, "missing summary for %s", want.EventID)
		assert.Equal(t, want.Samples, got.Samples)
		assert.InDelta(t, want.MeanAngularWidthDeg, got.MeanAngularWidthDeg, 1e-9)
		assert.InDelta(t, want.MeanSpeedKms, got.MeanSpeedKms, 1e-9)
		assert.InDelta(t, want.FitSlope, got.FitSlope, 1e-9)
		assert.True(t, want.ProcessedAt.Equal(got.ProcessedAt))
	}
}
