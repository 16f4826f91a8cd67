package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	reader *kafka.Reader
	logger *logrus.Logger
}

func NewConsumer(brokers []string, topic, groupID string, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    10e3,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
	})

	return &Consumer{reader: reader, logger: logger}
}

// ProcessEvents reads until ctx is cancelled. Handler errors are logged and
// do not stop the loop.
func (c *Consumer) ProcessEvents(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Consumer stopping...")
				return ctx.Err()
			}
			c.logger.WithError(err).Error("Error reading message")
			continue
		}

		if err := handleMessage(ctx, message, handler, c.logger); err != nil {
			c.logger.WithError(err).Error("Error handling message")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

type EventHandler interface {
	HandleIngestRequest(ctx context.Context, event IngestRequestEvent) error
	HandleListingsIngested(ctx context.Context, event ListingsIngestedEvent) error
	HandleIngestFailed(ctx context.Context, event IngestFailedEvent) error
}

func handleMessage(ctx context.Context, message kafka.Message, handler EventHandler, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"key":       string(message.Key),
		"partition": message.Partition,
		"offset":    message.Offset,
	}).Debug("Received message")

	var envelope struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return err
	}

	switch envelope.EventType {
	case EventIngestRequest:
		var event IngestRequestEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return handler.HandleIngestRequest(ctx, event)

	case EventListingsIngested:
		var event ListingsIngestedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return handler.HandleListingsIngested(ctx, event)

	case EventIngestFailed:
		var event IngestFailedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return handler.HandleIngestFailed(ctx, event)

	case "":
		logger.Warn("Unknown event format")
		return nil

	default:
		logger.WithField("event_type", envelope.EventType).Warn("Unknown event type")
		return nil
	}
}
