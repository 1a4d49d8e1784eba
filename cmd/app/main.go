// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infoseek-tracker/internal/config"
	"infoseek-tracker/internal/infra/adapters/searchapi"
	"infoseek-tracker/internal/infra/i18n"
	"infoseek-tracker/internal/infra/logging"
	"infoseek-tracker/internal/infra/metrics"
	red "infoseek-tracker/internal/infra/redis"
	"infoseek-tracker/internal/infra/web"
	"infoseek-tracker/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	ledger := red.NewRemovalLedger(redisClient)
	if err := ledger.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("removal ledger")
	}

	// ---- Search backend ----
	store := searchapi.NewClient(&cfg.SearchAPI, logger)
	media := searchapi.NewMediaResolver(cfg.SearchAPI.MediaBaseURL)

	// ---- Translations ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Web.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("translator")
	}

	// ---- Tracker ----
	tracker := usecase.NewTrackerUseCase(store, ledger, cfg.Tracker, logger)
	tracker.Start(ctx)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, !cfg.Runtime.Dev, "", cfg.Web.SessionTTL)
	srv := web.NewServer(tracker, auth, media, translator, cfg.Web.APIKey, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Web.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	tracker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
