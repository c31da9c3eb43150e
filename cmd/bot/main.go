package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexicards/internal/app"
	"lexicards/internal/config"
	"lexicards/internal/handler"
	"lexicards/internal/middleware"
	"lexicards/internal/reminder"
	"lexicards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireBotToken()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Lexicards Bot",
		zap.String("scheduler", cfg.Scheduler),
		zap.String("store", cfg.Store.Driver))

	// Open the progress store and run migrations
	repo, closer, err := app.OpenStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load vocabulary
	d, loaded := app.LoadDeck(ctx, cfg.VocabSource, logger)

	// Initialize services
	studyService := service.NewStudyService(d, repo, cfg.Scheduler, nil, logger)
	statsService := service.NewStatsService(d, repo, nil, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	bot.Use(middleware.Recover(logger), middleware.Logging(logger))

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, studyService, statsService, loaded.Status, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start due-card reminders
	remind := reminder.New(cfg.ReminderCron, statsService, h, logger)
	if err := remind.Start(); err != nil {
		logger.Fatal("Failed to start reminder", zap.Error(err))
	}
	defer remind.Stop()

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}
