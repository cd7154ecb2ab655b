package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chartak/orderbot/config"
	"github.com/chartak/orderbot/internal/bot"
	"github.com/chartak/orderbot/internal/buildinfo"
	"github.com/chartak/orderbot/internal/catalog"
	"github.com/chartak/orderbot/internal/database"
	"github.com/chartak/orderbot/internal/logger"
	"github.com/chartak/orderbot/internal/repository"
	"github.com/chartak/orderbot/internal/session"
	"log/slog"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("orderbot: %v", err)
	}
}

func run() error {
	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	startedAt := time.Now()
	logger.App.Info("starting",
		slog.String("event", "start"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Shop.CatalogPath)
	if err != nil {
		return err
	}

	app, err := bot.New(cfg, repository.NewPostgres(db), session.NewMemoryManager(), cat)
	if err != nil {
		return err
	}

	logger.App.Info("app ready",
		slog.String("event", "ready"),
		slog.Int("catalog_items", cat.Len()),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = app.Start(ctx)
	logger.App.Info("shutting down", slog.String("event", "shutdown"))
	return err
}
