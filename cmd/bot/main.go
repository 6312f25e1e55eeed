package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gestaofinanceira/internal/bot"
	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/database"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("bot init: %w", err)
	}
	api.Debug = cfg.TelegramDebug

	db := dbManager.DB()
	b := bot.New(api, bot.Deps{
		Telegram: services.NewTelegramService(db),
		Commands: services.NewCommandService(db, cfg.CurrencySymbol),
		Reports:  services.NewReportService(db),
		Audit:    services.NewAuditService(db),
	}, cfg.CurrencySymbol)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b.Run(ctx, api)
	return nil
}
