package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/cache"
	"listing-radar/internal/config"
	"listing-radar/internal/kafka"
	"listing-radar/internal/logging"
	"listing-radar/internal/store"
	"listing-radar/internal/views"
	"listing-radar/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

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

	go func() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "dashboard-cache", logger)
		defer consumer.Close()

		if err := consumer.ProcessEvents(ctx, views.NewInvalidator(svc)); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Dashboard Kafka consumer error")
		}
	}()

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	web.SetupRoutes(router, web.NewHandler(svc, db, c, logger))

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error shutting down server")
		}
	}()

	logger.WithField("addr", cfg.HTTPAddr).Info("Starting dashboard")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Dashboard server failed")
	}
	logger.Info("Dashboard stopped")
}
