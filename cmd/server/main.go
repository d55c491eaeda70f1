package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/atsbridge/internal/app"
	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	srv, err := app.InitializeServer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize ATS provider", "provider", cfg.Provider, "err", err)
		os.Exit(1)
	}

	go func() {
		_ = shutdown.Graceful(
			context.Background(),
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			srv,
		)
	}()

	logger.Info("ATS bridge initialized and starting", "addr", cfg.Addr(), "provider", cfg.Provider)

	if err := srv.Run(); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
