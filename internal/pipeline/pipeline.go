package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/extractor"
	"listing-radar/internal/fetcher"
	"listing-radar/internal/kafka"
	"listing-radar/internal/listing"
	"listing-radar/internal/metrics"
)

type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
	StageStore Stage = "store"
)

// StageError reports which step of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Store interface {
	InsertAll(ctx context.Context, records []listing.Listing) (int, error)
}

// Publisher is told about every finished run. kafka.Producer satisfies it.
type Publisher interface {
	PublishListingsIngested(ctx context.Context, event kafka.ListingsIngestedEvent) error
	PublishIngestFailed(ctx context.Context, event kafka.IngestFailedEvent) error
}

// Invalidator drops derived data after new listings are stored.
// cache.Cache satisfies it.
type Invalidator interface {
	Invalidate() error
}

type Request struct {
	ID     string
	Source string
	ChatID int64
}

type Report struct {
	RunID     string
	Source    string
	Extracted int
	Stored    int
	Listings  []listing.Listing
	Duration  time.Duration
}

// Empty reports a successful run that found nothing to store.
func (r Report) Empty() bool {
	return r.Stored == 0
}

type Runner struct {
	fetcher   fetcher.Fetcher
	extractor *extractor.Extractor
	store     Store
	publisher   Publisher
	invalidator Invalidator
	logger      *logrus.Logger
}

func NewRunner(f fetcher.Fetcher, e *extractor.Extractor, s Store, logger *logrus.Logger) *Runner {
	return &Runner{fetcher: f, extractor: e, store: s, logger: logger}
}

// WithPublisher makes the runner announce outcomes.
func (r *Runner) WithPublisher(p Publisher) *Runner {
	r.publisher = p
	return r
}

// WithInvalidator makes the runner drop cached views after a run that
// stored something.
func (r *Runner) WithInvalidator(i Invalidator) *Runner {
	r.invalidator = i
	return r
}

func (r *Runner) Run(ctx context.Context, source string) (Report, error) {
	return r.RunRequest(ctx, Request{Source: source})
}

// RunRequest fetches, extracts and stores one source. Each stage runs once;
// nothing is stored when any stage fails.
func (r *Runner) RunRequest(ctx context.Context, req Request) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString(), Source: req.Source}
	log := r.logger.WithFields(logrus.Fields{"run_id": report.RunID, "source": req.Source})
	log.Info("Starting ingest run")

	records, err := r.ingest(ctx, req.Source, &report)
	report.Duration = time.Since(start)
	metrics.IngestDuration.Observe(report.Duration.Seconds())

	if err != nil {
		var stageErr *StageError
		errors.As(err, &stageErr)
		metrics.IngestRuns.WithLabelValues("failed").Inc()
		metrics.IngestFailures.WithLabelValues(string(stageErr.Stage)).Inc()
		log.WithError(err).WithField("stage", stageErr.Stage).Error("Ingest run failed")
		r.publishFailed(ctx, req, report, stageErr)
		return report, err
	}

	report.Listings = records
	outcome := "stored"
	if report.Empty() {
		outcome = "empty"
	}
	metrics.IngestRuns.WithLabelValues(outcome).Inc()
	metrics.ListingsExtracted.Add(float64(report.Extracted))
	metrics.ListingsStored.Add(float64(report.Stored))

	log.WithFields(logrus.Fields{
		"extracted": report.Extracted,
		"stored":    report.Stored,
		"duration":  report.Duration.Round(time.Millisecond),
	}).Info("Ingest run completed")
	if !report.Empty() && r.invalidator != nil {
		if err := r.invalidator.Invalidate(); err != nil {
			log.WithError(err).Warn("Failed to invalidate cached views")
		}
	}
	r.publishIngested(ctx, req, report)
	return report, nil
}

func (r *Runner) ingest(ctx context.Context, source string, report *Report) ([]listing.Listing, error) {
	content, err := r.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}

	records, err := r.extractor.ExtractHTML(content, source)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	report.Extracted = len(records)

	stored, err := r.store.InsertAll(ctx, records)
	if err != nil {
		return nil, &StageError{Stage: StageStore, Err: err}
	}
	report.Stored = stored
	return records, nil
}

func (r *Runner) publishIngested(ctx context.Context, req Request, report Report) {
	if r.publisher == nil {
		return
	}
	err := r.publisher.PublishListingsIngested(ctx, kafka.ListingsIngestedEvent{
		RunID:      report.RunID,
		RequestID:  req.ID,
		Source:     req.Source,
		Extracted:  report.Extracted,
		Stored:     report.Stored,
		ChatID:     req.ChatID,
		FinishedAt: time.Now(),
	})
	if err != nil {
		r.logger.WithError(err).Warn("Failed to publish ingest result")
	}
}

func (r *Runner) publishFailed(ctx context.Context, req Request, report Report, stageErr *StageError) {
	if r.publisher == nil {
		return
	}
	err := r.publisher.PublishIngestFailed(ctx, kafka.IngestFailedEvent{
		RunID:      report.RunID,
		RequestID:  req.ID,
		Source:     req.Source,
		Stage:      string(stageErr.Stage),
		Error:      stageErr.Err.Error(),
		ChatID:     req.ChatID,
		FinishedAt: time.Now(),
	})
	if err != nil {
		r.logger.WithError(err).Warn("Failed to publish ingest failure")
	}
}
