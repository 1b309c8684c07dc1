//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/quake-catalogue-etl/internal/adapter/kafka"
	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
	"github.com/couchcryptid/quake-catalogue-etl/internal/config"
	"github.com/couchcryptid/quake-catalogue-etl/internal/isf"
	"github.com/couchcryptid/quake-catalogue-etl/internal/observability"
	"github.com/couchcryptid/quake-catalogue-etl/internal/pipeline"
	"github.com/couchcryptid/quake-catalogue-etl/internal/spool"
)

const testSinkTopic = "test-harmonized-quake-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
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
	ctrlConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// writeFixedWidth places values at exact column offsets of a fixed-width
// bulletin row.
func writeFixedWidth(length int, fields map[int]string) string {
	row := make([]byte, length)
	for i := range row {
		row[i] = ' '
	}
	for start, value := range fields {
		copy(row[start:], value)
	}
	return string(row)
}

// writeTestBulletin drops a minimal single-event ISF bulletin into dir.
func writeTestBulletin(t *testing.T, dir string) string {
	t.Helper()
	originHeader := "   Date       Time        Err   RMS Latitude Longitude  " +
		"Smaj  Smin  Az Depth   Err Ndef Nsta Gap  mdist  Mdist Qual   " +
		"Author      OrigID"
	originRow := writeFixedWidth(136, map[int]string{
		0:   "2004/01/25",
		11:  "11:43:11.59",
		36:  "  -3.287",
		45:  "  102.008",
		71:  " 33.0",
		118: "ISC",
		128: "7104441",
	})
	magnitudeRow := writeFixedWidth(38, map[int]string{
		0:  "mb",
		6:  " 5.6",
		20: "ISC",
		30: "7104441",
	})

	content := strings.Join([]string{
		"Event  9606051 Southern Sumatra",
		originHeader,
		originRow,
		" (#PRIME)",
		"Magnitude  Err Nsta Author      OrigID",
		magnitudeRow,
		"STOP",
	}, "\n") + "\n"

	path := filepath.Join(dir, "isc-2004.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestSpoolToKafka wires the full ingestion loop (spool watcher, ISF parser,
// store, Kafka writer) against real Kafka and verifies the harmonized event
// arrives on the sink topic.
func TestSpoolToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	spoolDir := t.TempDir()
	writeTestBulletin(t, spoolDir)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	reader, err := isf.NewReader(isf.Config{})
	require.NoError(t, err)

	store := pipeline.NewStore("master", "Master Catalogue")
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, store, writer, discardLogger(), metrics)

	watcher := spool.NewWatcher(spoolDir, 100*time.Millisecond, discardLogger())
	bulletins, err := watcher.Watch(ctx)
	require.NoError(t, err)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx, bulletins) }()

	// Consume the harmonized event from the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	msg, err := consumer.ReadMessage(readCtx)
	readCancel()
	require.NoError(t, err, "read from sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, []byte("9606051"), msg.Key)
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "isc-2004", headers["catalogue_id"])
	assert.NotEmpty(t, headers["ingest_run"])

	var event catalogue.Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "9606051", event.ID)
	assert.Equal(t, "Southern Sumatra", event.Description)
	require.Len(t, event.Origins, 1)
	origin := event.Origins[0]
	assert.Equal(t, "7104441", origin.ID)
	assert.True(t, origin.IsPrime)
	assert.Equal(t, -3.287, origin.Location.Latitude)
	assert.Equal(t, 102.008, origin.Location.Longitude)
	require.Len(t, event.Magnitudes, 1)
	assert.Equal(t, 5.6, event.Magnitudes[0].Value)
	assert.Equal(t, "mb", event.Magnitudes[0].Scale)

	// The ingested bulletin is also reflected in the master catalogue.
	summary := store.Summary()
	assert.Equal(t, 1, summary.Events)
	assert.Equal(t, 1, summary.Bulletins)
}
