package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/libris/library-api/internal/api"
	"github.com/libris/library-api/internal/core/ports"
	"github.com/libris/library-api/internal/core/service"
	"github.com/libris/library-api/internal/graph"
	"github.com/libris/library-api/internal/infrastructure/config"
	"github.com/libris/library-api/internal/infrastructure/db/mongo"
	"github.com/libris/library-api/internal/infrastructure/db/redis"
	"github.com/libris/library-api/internal/infrastructure/pubsub"
	"github.com/libris/library-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Persistence ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	log.Info().Str("uri", cfg.Mongo.URI).Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	bookRepo := mongo.NewBookRepository(db)
	authorRepo := mongo.NewAuthorRepository(db)
	userRepo := mongo.NewUserRepository(db)

	if err := authorRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("create author indexes failed")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("create user indexes failed")
	}

	// --- Change notifier ---
	var (
		notifier ports.BookNotifier
		rdb      *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		notifier = redis.NewBookNotifier(rdb, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("book events over redis pub/sub")
	} else {
		notifier = pubsub.NewBroker(log)
		log.Info().Msg("book events in process")
	}

	// --- Services and schema ---
	catalogService := service.NewCatalogService(bookRepo, authorRepo, log)
	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SharedPassword, cfg.TokenTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init failed")
	}

	schema := graph.MustParseSchema(graph.NewResolver(catalogService, authService, notifier, log))

	// --- HTTP server ---
	e := api.NewRouter(schema, authService, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server running")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
