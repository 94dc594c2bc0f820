package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/qbank/internal/api"
	"github.com/dgallion1/qbank/internal/config"
	"github.com/dgallion1/qbank/internal/engine"
	"github.com/dgallion1/qbank/internal/pipeline"
	"github.com/dgallion1/qbank/internal/question"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the question bank before the listener starts, so every search
	// runs against a fully published corpus. A missing snapshot is fine —
	// the bank can be bootstrapped through /api/ingest.
	eng := engine.New()
	records, err := question.LoadFile(cfg.SnapshotPath)
	switch {
	case err == nil:
		eng.Load(records)
		log.Info("snapshot loaded", "path", cfg.SnapshotPath, "questions", len(records))
	case errors.Is(err, os.ErrNotExist):
		log.Warn("snapshot not found, starting with empty bank", "path", cfg.SnapshotPath)
	default:
		log.Error("snapshot load failed", "path", cfg.SnapshotPath, "error", err)
		os.Exit(1)
	}

	// Initialize ingest pipeline.
	orch := pipeline.NewOrchestrator(cfg, eng, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, eng, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting qbank", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
