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

	"github.com/hearthshare/ledger/internal/archive"
	"github.com/hearthshare/ledger/internal/auth"
	"github.com/hearthshare/ledger/internal/config"
	"github.com/hearthshare/ledger/internal/server"
	"github.com/hearthshare/ledger/internal/service"
	"github.com/hearthshare/ledger/internal/storage"
	"github.com/hearthshare/ledger/internal/storage/mongo"
	"github.com/hearthshare/ledger/internal/storage/sqlite"
	"github.com/hearthshare/ledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend)

	runner := archive.NewRunner(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry)
	svc := service.NewLedgerService(store)

	scheduler := archive.NewScheduler(runner)
	scheduler.ArchiveSpec = cfg.ArchiveSpec
	scheduler.SweepSpec = cfg.SweepSpec
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start archive scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(svc, runner, jwtManager).Handler(),
	}

	go func() {
		slog.Info("Ledger server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return sqlite.New(cfg.SQLitePath)
	}
}
