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

	_ "github.com/dmlogistics/portal/docs"
	"github.com/dmlogistics/portal/internal/api"
	"github.com/dmlogistics/portal/internal/api/handler"
	"github.com/dmlogistics/portal/internal/core/service"
	"github.com/dmlogistics/portal/internal/infrastructure/db/mongo"
	"github.com/dmlogistics/portal/internal/infrastructure/db/redis"
	"github.com/dmlogistics/portal/internal/infrastructure/gateway"
	"github.com/dmlogistics/portal/internal/infrastructure/pdf"
	"github.com/dmlogistics/portal/internal/infrastructure/queue"
	"github.com/dmlogistics/portal/internal/pkg/config"
	"github.com/dmlogistics/portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       DM Logistics Portal API
// @version                     1.0
// @description                 Shipment tracking, shipment listings and PDF receipts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "portal"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "portal",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	activityRepo := mongo.NewActivityRepository(db)
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	backend := gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil, logger.Component("gateway"))

	// Activity workers outlive the HTTP server so in-flight entries drain.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activityRepo, logger.Component("activity"))
	dispatcher.Start(workerCtx)

	tracking := service.NewTrackingService(backend, logger.Component("tracking"))
	shipments := service.NewShipmentService(
		backend,
		redis.NewStatusDedup(rdb, cfg.Shipment.StatusDedupTTL),
		dispatcher,
		cfg.Shipment.CacheTTL,
		logger.Component("shipments"),
	)
	receipts := pdf.NewGenerator(pdf.Options{
		CompanyName: cfg.Receipt.CompanyName,
		SiteURL:     cfg.SiteURL,
	}, logger.Component("receipt"))

	e := api.NewRouter(api.Dependencies{
		Tracking:   tracking,
		Sessions:   service.NewTrackingSessions(tracking, cfg.Tracking.SessionTTL),
		Shipments:  shipments,
		Receipts:   receipts,
		Activity:   activityRepo,
		Health:     []handler.DependencyChecker{mongo.Checker{Client: mongoClient}, redis.Checker{Client: rdb}, backend},
		JWTSecret:  cfg.JWTSecret,
		EnableDocs: !cfg.IsProduction(),
		Logger:     logger.Component("http"),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopWorkers()
		dispatcher.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}
