package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	firestorestore "github.com/AchilleasB/activeplay/booking-service/internal/adapters/firestore"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/handler"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/identity"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/messaging"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/metrics"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/redisstore"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/repository"
	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/services"
	"github.com/AchilleasB/activeplay/booking-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log, closer := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Component: "api"})
	defer closer.Close()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()
	sqlRepo := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	firebaseApp, err := identity.NewApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccount)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize firebase")
	}
	firestoreClient, err := identity.NewFirestore(ctx, firebaseApp)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize firestore")
	}
	docs := firestorestore.NewStore(firestoreClient)
	defer docs.Close()

	verifier, err := identity.NewFirebaseVerifier(ctx, firebaseApp)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize firebase auth")
	}

	// Tracking events are best effort; the API runs without a broker.
	var trackingPublisher ports.TrackingEventPublisher
	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventQueueName)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, tracking events will not be published")
	} else {
		defer broker.Close()
		trackingPublisher = broker
	}

	promMetrics := metrics.NewPrometheus()
	redisBreaker := redisstore.NewBreaker()
	sessions := redisstore.NewSessionStore(redisClient, redisBreaker)

	authService := services.NewAuthService(sqlRepo, docs, verifier, sessions, cfg.JWTPrivateKey, cfg.SessionTTL, log)
	subscriptionService := services.NewSubscriptionService(docs, services.DefaultPlans(), promMetrics, log)
	scheduleService := services.NewScheduleService(sqlRepo, cfg.Location, log)
	bookingService := services.NewBookingService(subscriptionService, sqlRepo, promMetrics, cfg.Location, log)
	reportService := services.NewReportService(sqlRepo, cfg.Location)
	profileService := services.NewProfileService(docs, sqlRepo, log)
	trackingService := services.NewTrackingService(
		sqlRepo,
		sqlRepo,
		redisstore.NewTrackingStore(redisClient, cfg.TrackingTTL, redisBreaker),
		trackingPublisher,
		promMetrics,
		cfg.TrackingTickInterval,
		log,
	)
	defer trackingService.Shutdown()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, sessions, log)

	router := handler.NewRouter(handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Booking:      handler.NewBookingHandler(bookingService),
		Schedule:     handler.NewScheduleHandler(scheduleService),
		Tracking:     handler.NewTrackingHandler(trackingService, cfg.AllowedOrigins, log),
		Report:       handler.NewReportHandler(reportService),
		Profile:      handler.NewProfileHandler(profileService),
		Health: handler.NewHealthHandler(sqlRepo, handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})),
		Metrics: promMetrics.Handler(),
	}, authMiddleware, middleware.RequestLogger(log), promMetrics.Middleware)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORSMiddleware(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("could not start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down server")
	}
}
