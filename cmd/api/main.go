// Command api runs the booking system HTTP server.
//
// @title           StashSpace Booking API
// @version         1.0
// @description     Storage-space marketplace reservation API.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/stashspace/booking-system/docs"
	"github.com/stashspace/booking-system/internal/api"
	"github.com/stashspace/booking-system/internal/infrastructure/config"
	mongodb "github.com/stashspace/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/stashspace/booking-system/internal/infrastructure/db/redis"
	"github.com/stashspace/booking-system/internal/infrastructure/notify"
	"github.com/stashspace/booking-system/internal/infrastructure/payment/stripe"
	"github.com/stashspace/booking-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	for _, err := range []error{
		mongodb.NewUserRepository(db).EnsureIndexes(ctx),
		mongodb.NewBookingRepository(db).EnsureIndexes(ctx),
		mongodb.NewConversationRepository(db).EnsureIndexes(ctx),
	} {
		if err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	gateway := stripe.NewClient(cfg.Stripe.APIKey, cfg.Stripe.BaseURL)

	presence := notify.NewPresence(mongodb.NewSocketRepository(db))
	if err := presence.Rebuild(ctx); err != nil {
		log.Warn().Err(err).Msg("presence rebuild failed, starting with empty registry")
	}
	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, presence, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(client, db, rdb, gateway, dispatcher, cfg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("booking system listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
