package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Mahdyy18/center-five-system/internal/config"
	"github.com/Mahdyy18/center-five-system/internal/infra"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/router"
	"github.com/Mahdyy18/center-five-system/internal/service"
	"github.com/Mahdyy18/center-five-system/internal/store"
	"github.com/Mahdyy18/center-five-system/internal/worker"
)

func main() {
	// Structured console logger for local runs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open data store")
	}

	clock := infra.NewZoneClock(cfg.Timezone)
	coord := ledger.New(st, clock)

	// prune stale invoices and dedupe legacy return expenses before serving
	if err := coord.StartupMaintenance(); err != nil {
		log.Fatal().Err(err).Msg("startup maintenance failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	localSink := infra.NewLocalSink(cfg.BackupDir)
	dropbox := infra.NewDropboxClient(cfg.DropboxToken, cfg.DropboxPath)
	dataSvc := service.NewDataService(st, clock)
	scheduler := worker.NewBackupScheduler(
		dataSvc, localSink, dropbox,
		time.Duration(cfg.LocalBackupMinutes)*time.Minute,
		time.Duration(cfg.CloudBackupMinutes)*time.Minute,
	)
	scheduler.Start(ctx)

	r := router.New(cfg, st, clock, coord, localSink)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Center Five backend listening on :%d", cfg.Port)
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
