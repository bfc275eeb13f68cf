package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/models"
)

// Config holds all application configuration.
type Config struct {
	TwelveAPIKey   string
	TelegramToken  string
	TelegramChatID int64

	Symbols        []string
	Interval       string
	HistoryBars    int
	SignalDuration string

	LogLevel        string
	RequestTimeout  int // seconds
	EnableSentiment bool

	// Postgres connection; empty host selects the in-memory store.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Network models.NetworkConfig
	Risk    models.RiskConfig
}

// Load initializes configuration from environment variables, reading a
// .env file first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		TwelveAPIKey:   os.Getenv("TWELVE_API_KEY"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),

		Symbols:        splitList(getEnvWithDefault("SYMBOLS", "EUR/USD,GBP/USD,USD/JPY")),
		Interval:       getEnvWithDefault("INTERVAL", "5min"),
		HistoryBars:    getEnvIntWithDefault("HISTORY_BARS", 200),
		SignalDuration: getEnvWithDefault("SIGNAL_DURATION", "5min"),

		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		RequestTimeout:  getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		EnableSentiment: getEnvBoolWithDefault("ENABLE_SENTIMENT", false),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "aitrader"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	cfg.Network = models.NetworkConfig{
		InputSize:    getEnvIntWithDefault("NN_INPUT_SIZE", 15),
		HiddenLayers: splitIntList(getEnvWithDefault("NN_HIDDEN_LAYERS", "20,12")),
		OutputSize:   1,
		Activation:   getEnvWithDefault("NN_ACTIVATION", models.ActivationReLU),
		LearningRate: getEnvFloatWithDefault("NN_LEARNING_RATE", 0.01),
		Epochs:       getEnvIntWithDefault("NN_EPOCHS", 100),
		BatchSize:    getEnvIntWithDefault("NN_BATCH_SIZE", 32),
	}

	cfg.Risk = models.RiskConfig{
		MaxPositionSize:      getEnvFloatWithDefault("RISK_MAX_POSITION_SIZE", 100),
		MaxDailyTrades:       getEnvIntWithDefault("RISK_MAX_DAILY_TRADES", 10),
		DefaultStopLossPct:   getEnvFloatWithDefault("RISK_STOP_LOSS_PCT", 0.01),
		DefaultTakeProfitPct: getEnvFloatWithDefault("RISK_TAKE_PROFIT_PCT", 0.02),
		MinConfidence:        getEnvFloatWithDefault("RISK_MIN_CONFIDENCE", 0.2),
	}
	if err := cfg.Risk.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsePostgres reports whether a database host is configured.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer env value, using default")
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer env value, using default")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid float env value, using default")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitIntList(value string) []int {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if parsed, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, parsed)
		}
	}
	return out
}
