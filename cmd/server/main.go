package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebil-rentals/service-booking/internal/application"
	"github.com/rebil-rentals/service-booking/internal/config"
	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	"github.com/rebil-rentals/service-booking/internal/events"
	"github.com/rebil-rentals/service-booking/internal/handler"
	"github.com/rebil-rentals/service-booking/internal/pkg/auth"
	"github.com/rebil-rentals/service-booking/internal/pkg/database"
	"github.com/rebil-rentals/service-booking/internal/pkg/health"
	"github.com/rebil-rentals/service-booking/internal/pkg/kafka"
	"github.com/rebil-rentals/service-booking/internal/pkg/logger"
	"github.com/rebil-rentals/service-booking/internal/pkg/middleware"
	"github.com/rebil-rentals/service-booking/internal/repository"
)

const serviceName = "service-booking"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited with error", zap.Error(err))
	}
}

func run(cfg *config.ServiceConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbCfg, log)
	if err != nil {
		return err
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.ReviewModel{},
			&repository.TransitionModel{},
		); err != nil {
			return err
		}
		log.Info("schema auto-migrated")
	} else {
		if err := database.RunMigrations(dbCfg.DatabaseURL(), "migrations", log); err != nil {
			return err
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute, 7*24*time.Hour)

	producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = producer.Close() }()

	bookingRepo := repository.NewGormBookingRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	auditRepo := repository.NewGormAuditRepository(db)

	clock := bookingDomain.SystemClock{}
	quote := bookingDomain.NewStandardQuoteStrategy(cfg.Quote)

	bookingService := application.NewBookingService(
		bookingRepo, auditRepo, cfg.Policy, quote, clock, producer, log,
	)
	reviewService := application.NewReviewService(
		reviewRepo, bookingRepo, clock, producer, log,
	)

	fleetConsumer := events.NewFleetConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+serviceName,
		bookingService,
		log,
	)
	defer func() { _ = fleetConsumer.Close() }()

	go func() {
		if err := fleetConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("fleet consumer stopped", zap.Error(err))
		}
	}()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.CORSMiddleware(),
		middleware.SecurityHeadersMiddleware(),
	)

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("/api/v1")
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(bookingService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	return nil
}
