package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/sensor-data-ingest/internal/config"
	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces reading messages to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured reading topic.
// Messages are keyed by upload ID so one upload's readings stay ordered on a
// single partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes readings in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(readings))
	for i := range readings {
		msg, err := serializeToMessage(readings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d readings: %w", len(msgs), err)
	}
	w.logger.Debug("readings published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Reading into a Kafka message.
func serializeToMessage(r domain.Reading) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "ordinal", Value: []byte(strconv.Itoa(r.Ordinal))},
	}
	if r.Time != nil {
		headers = append(headers, kafkago.Header{Key: "reading_time", Value: []byte(r.Time.Format(time.RFC3339))})
	}
	return kafkago.Message{
		Key:     []byte(r.UploadID),
		Value:   data,
		Headers: headers,
	}, nil
}
