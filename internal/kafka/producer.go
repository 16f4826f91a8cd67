package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	logger *logrus.Logger
}

func NewProducer(brokers []string, topic string, logger *logrus.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) PublishIngestRequest(ctx context.Context, event IngestRequestEvent) error {
	event.EventType = EventIngestRequest
	if event.RequestedAt.IsZero() {
		event.RequestedAt = time.Now()
	}

	if err := p.publish(ctx, "request_"+event.RequestID, event); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"request_id": event.RequestID,
		"source":     event.Source,
		"chat_id":    event.ChatID,
	}).Info("Published ingest_request event")
	return nil
}

func (p *Producer) PublishListingsIngested(ctx context.Context, event ListingsIngestedEvent) error {
	event.EventType = EventListingsIngested

	if err := p.publish(ctx, "run_"+event.RunID, event); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"run_id": event.RunID,
		"source": event.Source,
		"stored": event.Stored,
	}).Info("Published listings_ingested event")
	return nil
}

func (p *Producer) PublishIngestFailed(ctx context.Context, event IngestFailedEvent) error {
	event.EventType = EventIngestFailed

	if err := p.publish(ctx, "run_"+event.RunID, event); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"run_id": event.RunID,
		"source": event.Source,
		"stage":  event.Stage,
	}).Info("Published ingest_failed event")
	return nil
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventTypeOf(event), err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write %s message: %w", eventTypeOf(event), err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func eventTypeOf(event any) string {
	switch e := event.(type) {
	case IngestRequestEvent:
		return e.EventType
	case ListingsIngestedEvent:
		return e.EventType
	case IngestFailedEvent:
		return e.EventType
	default:
		return "unknown"
	}
}
