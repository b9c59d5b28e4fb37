package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/config"
	"github.com/alceillini1999/Zaad.POS/internal/infra"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/router"
	"github.com/alceillini1999/Zaad.POS/internal/store"
	"github.com/alceillini1999/Zaad.POS/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Money fields serialize as JSON numbers, matching what the POS
	// frontend has always parsed.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Timezone).Msg("invalid APP_TIMEZONE")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := store.NewSheetsService(ctx, cfg.GoogleClientEmail, cfg.GooglePrivateKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sheets client")
	}
	sheetsCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	st := store.NewSheetsStore(svc, cfg.SpreadsheetID, time.Duration(cfg.SheetsTimeoutSeconds)*time.Second, sheetsCB)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async retries (delivery-row cleanup).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	deliveryRepo := repository.NewDeliveryRepository(st, cfg.DeliveryTab)
	workerHandlers := &worker.WorkerHandlers{
		Cleanup: worker.NewCleanupWorker(deliveryRepo),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(cfg, st, rdb, sheetsCB, loc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // Sheets round-trips can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Zaad POS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
