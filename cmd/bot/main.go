package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"listing-radar/internal/bot"
	"listing-radar/internal/cache"
	"listing-radar/internal/config"
	"listing-radar/internal/kafka"
	"listing-radar/internal/logging"
	"listing-radar/internal/store"
	"listing-radar/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.BotToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	db, err := store.Connect(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error connecting to db")
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to prepare schema")
	}

	c := cache.Connect(cfg.RedisAddr, logger)
	svc := views.NewService(db, c, logger)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer producer.Close()

	telegramBot, err := bot.NewBot(cfg.BotToken, svc, c, producer, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error creating bot")
	}

	go func() {
		logger.Info("🔔 Starting Bot Kafka consumer for notifications...")

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "bot-notification-service", logger)
		defer consumer.Close()

		if err := consumer.ProcessEvents(ctx, telegramBot); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("❌ Bot Kafka consumer error")
		}
	}()

	logger.Info("🤖 Starting Telegram Bot...")
	telegramBot.Start(ctx)
	logger.Info("Bot stopped")
}
