package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/messaging"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/outbox"
	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/logger"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load relay configuration")
	}

	log, closer := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Component: "outbox-relay"})
	defer closer.Close()
	log.Info("starting outbox relay service")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()
	log.Info("database connection initialized, circuit breaker will validate on first operation")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventQueueName)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer broker.Close()
	log.Info("connected to RabbitMQ")

	relayWorker := outbox.NewRelay(db, cfg.DatabaseURL, broker, log)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, relayWorker.IsHealthy())
	})
	healthMux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, relayWorker.IsReady())
	})

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HealthPort).Info("starting health check server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting event processing worker")
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("received signal, initiating shutdown")
	case err := <-errChan:
		log.WithError(err).Error("relay worker failed, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down health server")
	}

	log.Info("shutdown complete")
}

func writeStatus(w http.ResponseWriter, up bool) {
	status := "UP"
	httpStatus := http.StatusOK
	if !up {
		status = "DOWN"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    status,
		"component": "outbox-relay",
	})
}
