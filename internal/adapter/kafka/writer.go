// Package kafka publishes harmonized catalogue events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
	"github.com/couchcryptid/quake-catalogue-etl/internal/config"
)

// Writer produces harmonized events to the sink topic.
// It implements pipeline.Publisher.
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

// PublishBatch serializes the events of one ingested bulletin and writes
// them in a single WriteMessages call. Messages are keyed by event id so
// repeated ingests of the same bulletin land on the same partition.
func (w *Writer) PublishBatch(ctx context.Context, catalogueID, runID string, events []*catalogue.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i, event := range events {
		msg, err := serializeToMessage(catalogueID, runID, event)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an event into a Kafka message.
func serializeToMessage(catalogueID, runID string, event *catalogue.Event) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event %s: %w", event.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "catalogue_id", Value: []byte(catalogueID)},
			{Key: "ingest_run", Value: []byte(runID)},
		},
	}, nil
}
