package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plc-kb/internal/app"
	"plc-kb/internal/config"
	"plc-kb/internal/handlers"
	"plc-kb/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about the indexed PLC book collection with cited sources.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: PLC Knowledge Base API
//   description: |
//     Retrieval-augmented question answering over the processed PLC book collection.
//     Answers cite book SKU, title, and page, and may include web context when
//     book retrieval is weak. Set the X-API-Key header when the server has API_KEY configured.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json
// securityDefinitions:
//   api_key:
//     type: apiKey
//     name: X-API-Key
//     in: header

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.SlogLevel().String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Shutdown cleanup failed", "error", err)
		}
	}()

	var redisPinger handlers.Pinger
	if a.Cache != nil {
		redisPinger = a.Cache
	}

	router := http.NewRouter(&http.Deps{
		QueryService:  a.Queries,
		IngestService: a.Ingest,
		Books:         a.Books,
		Qdrant:        a.Vectors,
		Redis:         redisPinger,
		APIKey:        cfg.APIKey,
	})
	if cfg.APIKey == "" {
		slog.Warn("API_KEY not set, endpoints are unauthenticated")
	}

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("API server failed", "error", err)
			return
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	if a.Ingest.Running() {
		slog.Info("Waiting for ingestion run to finish")
	}
}
