package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avrudenko/lingvobot/internal/config"
	"github.com/avrudenko/lingvobot/internal/database"
	"github.com/avrudenko/lingvobot/internal/game"
	"github.com/avrudenko/lingvobot/internal/groq"
	"github.com/avrudenko/lingvobot/internal/health"
	"github.com/avrudenko/lingvobot/internal/repositories"
	"github.com/avrudenko/lingvobot/internal/retry"
	"github.com/avrudenko/lingvobot/internal/store"
	"github.com/avrudenko/lingvobot/internal/translate"
	"github.com/avrudenko/lingvobot/internal/trivia"
	"github.com/avrudenko/lingvobot/pkg/logger"
	"github.com/avrudenko/lingvobot/telegram"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Telegram Translation Bot...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Language preferences live in Postgres when configured, otherwise in
	// memory. Game sessions are always in memory.
	var prefs store.Preferences
	if cfg.HasDatabase() {
		db, err := database.Connect(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
		prefs = repositories.NewPreferenceRepository(db)
		logger.Info("Using Postgres preference store")
	} else {
		prefs = store.NewMemoryPreferences()
		logger.Info("No database configured, using in-memory preference store")
	}
	sessions := store.NewMemorySessions()

	// Shared retry policy for all upstream calls.
	policy := retry.NewPolicy(cfg.MaxRetries, cfg.RetryDelays())

	groqClient := groq.NewClient(cfg.GroqAPIKey)
	translator := translate.New(groqClient, policy, cfg.TranslationTimeout())
	questions := trivia.NewSource(translator, policy, cfg.TriviaTimeout())
	engine := game.NewEngine(sessions, prefs, questions, cfg.QuestionsPerGame)
	voice := telegram.NewVoiceHandler(cfg, groqClient, translator, prefs, policy)

	// Health endpoint keeps the hosting platform's checks green.
	healthSrv := health.NewServer(cfg.AppPort)
	healthSrv.Start()

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg, prefs, translator, voice, engine)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(ctx); err != nil {
		logger.Error("Health server shutdown failed", "error", err)
	}

	logger.Info("Bot stopped")
}
