package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository/memstore"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/router"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server exited")
}

func run() error {
	// Structured logger: pretty in dev, JSON in prod
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set: products cache and alert queue disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	dispatcher := worker.NewDispatcher(rdb)
	if rdb != nil {
		var mailer worker.Mailer
		if m := infra.NewMailer(cfg); m != nil {
			mailer = m
		}
		handlers := &worker.Handlers{
			StockAlert: worker.NewStockAlertWorker(mailer, cfg.AlertEmailTo, infra.NewCircuitBreaker(infra.DefaultCBConfig())),
		}
		worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, store, rdb, dispatcher),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Int("port", cfg.Port).
			Str("store", cfg.DatabaseDriver).
			Str("stock_floor", cfg.StockFloorPolicy).
			Str("sale_price", cfg.SalePricePolicy).
			Msg("Rumah Rasa backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// Graceful shutdown on SIGINT / SIGTERM, or when the listener fails
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		log.Warn().Msg("DATABASE_DRIVER=memory: data is lost on restart")
		return memstore.New(), nil
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return repository.NewGormStore(db), nil
}
