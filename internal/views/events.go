package views

import (
	"context"

	"listing-radar/internal/kafka"
)

// Invalidator drops cached views whenever new listings are stored.
type Invalidator struct {
	service *Service
}

func NewInvalidator(s *Service) *Invalidator {
	return &Invalidator{service: s}
}

func (i *Invalidator) HandleIngestRequest(context.Context, kafka.IngestRequestEvent) error {
	return nil
}

func (i *Invalidator) HandleListingsIngested(_ context.Context, event kafka.ListingsIngestedEvent) error {
	if event.Stored == 0 {
		return nil
	}
	return i.service.Invalidate()
}

func (i *Invalidator) HandleIngestFailed(context.Context, kafka.IngestFailedEvent) error {
	return nil
}
