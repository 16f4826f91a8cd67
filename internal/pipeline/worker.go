package pipeline

import (
	"context"

	"listing-radar/internal/kafka"
)

// Worker runs the pipeline for ingest requests read from Kafka, one at a time.
type Worker struct {
	runner *Runner
}

func NewWorker(runner *Runner) *Worker {
	return &Worker{runner: runner}
}

// HandleIngestRequest returns nil for failed runs; the failure is published
// and a redelivery would fail the same way.
func (w *Worker) HandleIngestRequest(ctx context.Context, event kafka.IngestRequestEvent) error {
	w.runner.RunRequest(ctx, Request{ID: event.RequestID, Source: event.Source, ChatID: event.ChatID})
	return nil
}

func (w *Worker) HandleListingsIngested(context.Context, kafka.ListingsIngestedEvent) error {
	return nil
}

func (w *Worker) HandleIngestFailed(context.Context, kafka.IngestFailedEvent) error {
	return nil
}
