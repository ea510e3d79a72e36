package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosterhq/roster-api/internal/api"
	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
	"github.com/rosterhq/roster-api/internal/core/service"
	"github.com/rosterhq/roster-api/internal/infrastructure/config"
	mongodb "github.com/rosterhq/roster-api/internal/infrastructure/db/mongo"
	redisdb "github.com/rosterhq/roster-api/internal/infrastructure/db/redis"
	"github.com/rosterhq/roster-api/internal/pkg/hashworker"
	"github.com/rosterhq/roster-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// Redis only backs the advisory login throttle; run without it if down.
	var throttle ports.LoginThrottle
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else {
		defer rdb.Close()
		throttle = redisdb.NewLoginThrottle(rdb, log)
	}

	pool := hashworker.New(cfg.HashWorkers)
	pool.Start(ctx)
	hasher := hashworker.NewHasher(pool, 0)

	userRepo := mongodb.NewUserRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)

	authService := service.NewAuthService(userRepo, hasher, throttle, cfg.JWTSecret, cfg.SessionTTL, log)
	studentService := service.NewStudentService(studentRepo, log)

	if cfg.Env == "development" {
		seedAdmin(ctx, authService, log)
	}

	e := api.NewRouter(authService, studentService, db, rdb, nil, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("roster api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}

// seedAdmin creates the bootstrap admin account for local development.
func seedAdmin(ctx context.Context, authService ports.AuthService, log zerolog.Logger) {
	_, err := authService.Register(ctx, "admin", "admin123", domain.RoleAdmin)
	switch {
	case err == nil:
		log.Info().Msg("seeded development admin user")
	case errors.Is(err, domain.ErrUserExists):
		// Already present from a previous run.
	default:
		log.Warn().Err(err).Msg("could not seed development admin user")
	}
}
