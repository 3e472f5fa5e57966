package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/config"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	analyticsHandler "github.com/Bhadra-Indranil/HealthCare-System/internal/handler/analytics"
	appointmentHandler "github.com/Bhadra-Indranil/HealthCare-System/internal/handler/appointment"
	authHandler "github.com/Bhadra-Indranil/HealthCare-System/internal/handler/auth"
	patientHandler "github.com/Bhadra-Indranil/HealthCare-System/internal/handler/patient"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/router"
	analyticsService "github.com/Bhadra-Indranil/HealthCare-System/internal/service/analytics"
	appointmentService "github.com/Bhadra-Indranil/HealthCare-System/internal/service/appointment"
	authService "github.com/Bhadra-Indranil/HealthCare-System/internal/service/auth"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/notification"
	patientService "github.com/Bhadra-Indranil/HealthCare-System/internal/service/patient"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/auth"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/logger"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/security"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/validator"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "healthcare-api",
	})

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := mongorepo.NewDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect database")
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, rate limiting falls back to in-memory")
		}
	}

	// Repositories
	accountRepo := mongorepo.NewAccountRepository(db)
	patientRepo := mongorepo.NewPatientRepository(db)
	appointmentRepo := mongorepo.NewAppointmentRepository(db)
	analyticsRepo := mongorepo.NewAnalyticsRepository(db)

	// Services
	tokenSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.TokenExpiry())
	hasher := security.NewBcryptHasher(0)
	notifier := notification.NewEmailNotifier(notification.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	authSvc := authService.NewService(accountRepo, hasher, tokenSvc)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, accountRepo, notifier)
	analyticsSvc := analyticsService.NewService(analyticsRepo)

	// Handlers
	healthH := handler.NewHealthHandler(func(ctx context.Context) error {
		return mongorepo.Ping(ctx, db)
	}, version)

	rateLimiter := middleware.NewRateLimiter(
		redisClient,
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	r := router.NewRouter(
		authSvc,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		healthH,
		router.Config{
			Mode:        cfg.Server.Mode,
			Timeout:     cfg.Timeout(),
			CORS:        middleware.DefaultCORSConfig(),
			RateLimiter: rateLimiter,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
