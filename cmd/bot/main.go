package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wordreview/internal/config"
	"wordreview/internal/database"
	"wordreview/internal/handler"
	"wordreview/internal/middleware"
	"wordreview/internal/repository/sqlstore"
	"wordreview/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting word review bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load check-in timezone", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("checkin_timezone", loc.String()),
		zap.Int("review_batch_size", cfg.ReviewBatchSize),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logger.Fatal("Failed to create database directory", zap.Error(err))
		}
	}

	// Connect to database with retries
	db, err := database.Open(ctx, database.OptionsFromConfig(cfg), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	wordRepo := sqlstore.NewWordRepo(db)
	progressRepo := sqlstore.NewProgressRepo(db)
	transactor := sqlstore.NewTransactor(db, logger)

	// Initialize services
	now := time.Now
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scheduler := service.NewScheduler(wordRepo, progressRepo, rng, now)
	ledger := service.NewLedger(progressRepo, transactor, loc, now, logger)
	reviewService := service.NewReviewService(scheduler, ledger, transactor, now, logger)
	wordService := service.NewWordService(wordRepo, now)
	statsService := service.NewStatsService(wordRepo, progressRepo, loc, now, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	bot.Use(middleware.EnsureUser(ledger, logger))
	h := handler.NewHandler(bot, reviewService, wordService, statsService, ledger, cfg.ReviewBatchSize, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()

	logger.Info("Bot stopped gracefully")
}
