package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process configuration read from the environment
type Config struct {
	// Trading
	Symbols             []string
	InitialCapital      float64
	MaxLeverage         float64 // 0 = use profile preset
	PositionSizePercent float64 // 0 = use profile preset
	StopLossPercent     float64 // 0 = use profile preset
	TakeProfitMult      float64

	// Collaborators
	StateStoreURL   string
	ExchangeID      string
	DatabaseURL     string
	SQLitePath      string
	CosmicConfig    string
	TelegramToken   string
	TelegramChatID  int64

	// Geographic anchor for the factor service
	Latitude  float64
	Longitude float64

	// Runtime
	CallTimeout time.Duration
	DryRun      bool
	Debug       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Symbols:             splitSymbols(getEnv("SYMBOL", "BTC/USDT")),
		InitialCapital:      getEnvFloat("INITIAL_CAPITAL", 10000),
		MaxLeverage:         getEnvFloat("MAX_LEVERAGE", 0),
		PositionSizePercent: getEnvFloat("POSITION_SIZE_PERCENT", 0),
		StopLossPercent:     getEnvFloat("STOP_LOSS_PERCENT", 0),
		TakeProfitMult:      getEnvFloat("TAKE_PROFIT_MULTIPLIER", 2.0),

		StateStoreURL:  getEnv("STATE_STORE_URL", ""),
		ExchangeID:     getEnv("EXCHANGE_ID", "binance"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "omegabot.db"),
		CosmicConfig:   getEnv("COSMIC_CONFIG_PATH", ""),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		Latitude:  getEnvFloat("GEO_LATITUDE", 0),
		Longitude: getEnvFloat("GEO_LONGITUDE", 0),

		CallTimeout: getEnvDuration("EXCHANGE_CALL_TIMEOUT", 15*time.Second),
		DryRun:      getEnvBool("DRY_RUN", true),
		Debug:       getEnvBool("DEBUG", false),
	}

	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("INITIAL_CAPITAL must be positive, got %v", cfg.InitialCapital)
	}
	if cfg.Latitude < -90 || cfg.Latitude > 90 {
		return nil, fmt.Errorf("GEO_LATITUDE out of range: %v", cfg.Latitude)
	}
	if cfg.Longitude < -180 || cfg.Longitude > 180 {
		return nil, fmt.Errorf("GEO_LONGITUDE out of range: %v", cfg.Longitude)
	}

	return cfg, nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
