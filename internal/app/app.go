package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pmarinho/bankledger/internal/api"
	"github.com/pmarinho/bankledger/internal/config"
	"github.com/pmarinho/bankledger/internal/observability"
	"github.com/pmarinho/bankledger/internal/registry"
	"github.com/pmarinho/bankledger/internal/service"
	"github.com/pmarinho/bankledger/internal/store"
	"go.uber.org/zap"
)

// Run bootstraps the ledger HTTP server, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	reg := registry.New()
	if cfg.SnapshotPath != "" {
		if err := loadSnapshot(cfg.SnapshotPath, reg, logger); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	accountSvc := service.NewAccountService(reg, logger)
	transferSvc := service.NewTransferService(reg, logger).WithGraceWindow(cfg.GraceWindow)

	router := api.NewRouter(cfg, logger, accountSvc, transferSvc)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort), zap.Duration("grace_window", cfg.GraceWindow))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	if cfg.SnapshotPath != "" {
		if err := store.SaveAll(cfg.SnapshotPath, reg.Accounts()); err != nil {
			logger.Error("snapshot save failed", zap.Error(err))
		} else {
			logger.Info("snapshot saved", zap.String("path", cfg.SnapshotPath))
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func loadSnapshot(path string, reg *registry.Registry, logger *zap.Logger) error {
	accounts, err := store.LoadAll(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no snapshot found, starting empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := reg.Register(account); err != nil {
			return fmt.Errorf("register %s: %w", account.IdentityKey(), err)
		}
	}
	logger.Info("snapshot loaded", zap.String("path", path), zap.Int("accounts", len(accounts)))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
