package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"listing-radar/internal/cache"
	"listing-radar/internal/config"
	"listing-radar/internal/extractor"
	"listing-radar/internal/fetcher"
	"listing-radar/internal/kafka"
	"listing-radar/internal/logging"
	"listing-radar/internal/pipeline"
	"listing-radar/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	worker := flag.Bool("worker", false, "consume ingest requests from Kafka instead of running once")
	publish := flag.Bool("publish", false, "publish the outcome of a one-shot run to Kafka")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-publish] <url-or-file>\n       %s -worker\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if !*worker && flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	db, err := store.Connect(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to prepare schema")
	}

	runner := pipeline.NewRunner(
		fetcher.New(fetcher.NewChardetDetector(), cfg.UserAgent, logger),
		extractor.New(cfg.ExtractorSelectors(), logger),
		db,
		logger,
	).WithInvalidator(cache.Connect(cfg.RedisAddr, logger))

	if *worker {
		runWorker(ctx, cfg, runner, logger)
		return 0
	}

	if *publish {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer producer.Close()
		runner.WithPublisher(producer)
	}

	return runOnce(ctx, runner, flag.Arg(0), logger)
}

func runOnce(ctx context.Context, runner *pipeline.Runner, source string, logger *logrus.Logger) int {
	report, err := runner.Run(ctx, source)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			logger.WithField("stage", stageErr.Stage).WithError(stageErr.Err).Error("Ingest failed")
		}
		return 1
	}

	if report.Empty() {
		fmt.Println("No listings found")
		return 0
	}

	fmt.Printf("Stored %d listings from %s\n", report.Stored, source)
	for i, l := range report.Listings {
		if i >= 5 {
			fmt.Printf("    ... and %d more\n", len(report.Listings)-5)
			break
		}
		fmt.Printf("    %d. %s\n", i+1, l)
	}
	return 0
}

func runWorker(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, logger *logrus.Logger) {
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Error("Error closing producer")
		}
	}()
	runner.WithPublisher(producer)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "ingest-worker", logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.WithError(err).Error("Error closing consumer")
		}
	}()

	logger.Info("✅ Ingest worker is running, listening for ingest requests")
	if err := consumer.ProcessEvents(ctx, pipeline.NewWorker(runner)); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("Kafka consumer error")
	}
	logger.Info("Ingest worker stopped")
}
