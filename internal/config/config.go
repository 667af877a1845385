package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Groq
	GroqAPIKey string

	// Database (optional; in-memory preference store is used when unset)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// External call timeouts (seconds)
	TranslationTimeoutSec   int
	TranscriptionTimeoutSec int
	FileDownloadTimeoutSec  int
	TriviaTimeoutSec        int

	// Retry policy
	MaxRetries int

	// Game
	QuestionPauseMs  int
	QuestionsPerGame int

	// Rate limiting
	RateLimitPerUser int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		GroqAPIKey: getEnv("GROQ_API_KEY", ""),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "lingvobot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lingvobot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TranslationTimeoutSec:   getEnvInt("TRANSLATION_TIMEOUT", 30),
		TranscriptionTimeoutSec: getEnvInt("TRANSCRIPTION_TIMEOUT", 60),
		FileDownloadTimeoutSec:  getEnvInt("FILE_DOWNLOAD_TIMEOUT", 30),
		TriviaTimeoutSec:        getEnvInt("TRIVIA_TIMEOUT", 15),

		MaxRetries: getEnvInt("MAX_RETRIES", 3),

		QuestionPauseMs:  getEnvInt("QUESTION_PAUSE_MS", 2500),
		QuestionsPerGame: getEnvInt("QUESTIONS_PER_GAME", 10),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}
	if c.QuestionsPerGame < 1 {
		return fmt.Errorf("QUESTIONS_PER_GAME must be at least 1")
	}
	return nil
}

// HasDatabase reports whether a Postgres preference store is configured.
func (c *Config) HasDatabase() bool {
	return c.DBHost != "" && c.DBPassword != ""
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) TranslationTimeout() time.Duration {
	return time.Duration(c.TranslationTimeoutSec) * time.Second
}

func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.TranscriptionTimeoutSec) * time.Second
}

func (c *Config) FileDownloadTimeout() time.Duration {
	return time.Duration(c.FileDownloadTimeoutSec) * time.Second
}

func (c *Config) TriviaTimeout() time.Duration {
	return time.Duration(c.TriviaTimeoutSec) * time.Second
}

func (c *Config) QuestionPause() time.Duration {
	return time.Duration(c.QuestionPauseMs) * time.Millisecond
}

// RetryDelays returns the exponential backoff schedule for MaxRetries
// attempts: 1s, 2s, 4s, ...
func (c *Config) RetryDelays() []time.Duration {
	delays := make([]time.Duration, 0, c.MaxRetries)
	d := time.Second
	for i := 0; i < c.MaxRetries; i++ {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
