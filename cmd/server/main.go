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

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/castlemilk/reclaim/internal/config"
	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/logger"
	"github.com/castlemilk/reclaim/internal/server"
	"github.com/castlemilk/reclaim/internal/service"
	"github.com/castlemilk/reclaim/internal/source"
	"github.com/castlemilk/reclaim/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeImpl := store.NewMemoryStore()
	extractor := extraction.NewExtractionService(extraction.Config{MaxFileSize: cfg.MaxFileSizeBytes()})

	remote := source.NewLazyGCSSource(source.GCSOptions{
		CredentialsFile: cfg.GCSCredentialsFile,
		Endpoint:        cfg.GCSEndpoint,
	})
	defer remote.Close()

	reports := service.NewReportStore(service.DefaultReportTTL)
	defer reports.Stop()

	importService := service.NewImportService(storeImpl, extractor, log, service.ImportConfig{
		Concurrency: cfg.ImportConcurrency,
		Remote:      remote,
		Reports:     reports,
	})

	if cfg.SeedDir != "" {
		seed(ctx, log, importService, cfg.SeedDomain, cfg.SeedDir)
	}

	analytics := service.NewAnalyticsService(storeImpl, log)
	stopCache := analytics.CacheInsights()
	defer stopCache()

	srv := server.New(server.Options{
		Finance:     service.NewFinanceService(storeImpl, log),
		Analytics:   analytics,
		Imports:     importService,
		MaxFileSize: cfg.MaxFileSizeBytes(),
		Logger:      log,
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"User-Agent",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
		},
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(c.Handler(srv.Handler()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Int64("max_file_size_mb", cfg.MaxFileSizeMB).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start server")
	}
	log.Info().Msg("server stopped")
}
