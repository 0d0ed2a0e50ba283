package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/otakulist/watchlist-api/docs"
	"github.com/otakulist/watchlist-api/internal/api"
	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/infrastructure/config"
	mongodb "github.com/otakulist/watchlist-api/internal/infrastructure/db/mongo"
	redisdb "github.com/otakulist/watchlist-api/internal/infrastructure/db/redis"
	"github.com/otakulist/watchlist-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Watchlist API
// @version      1.0
// @description  Personal anime and manga watchlist service with a shared studio catalogue.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if err := seedAdmin(ctx, db, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		mongodb.NewUserRepository(db),
		mongodb.NewAnimeRepository(db),
		mongodb.NewMangaRepository(db),
		mongodb.NewStudioRepository(db),
	}
	for _, repo := range indexed {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin provisions the initial administrator account from configuration.
// It is a no-op when no password is configured or the account already exists.
func seedAdmin(ctx context.Context, db *mongo.Database, admin config.AdminConfig) error {
	if admin.Password == "" {
		return nil
	}

	users := mongodb.NewUserRepository(db)
	exists, err := users.ExistsByUsername(ctx, admin.Username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = users.Create(ctx, &domain.User{
		Username:     admin.Username,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin, domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return nil
	}
	return err
}
