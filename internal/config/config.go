package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the replay server.
type Config struct {
	Port            int
	LogLevel        string
	DataPath        string
	Strategy        string
	StrategyQty     int64
	SpreadThreshold int64 // fixed-point price units
	RandomSeed      int64
	MaxEvents       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. A .env file in the working directory is loaded
// first when present. It returns an error for any invalid value.
func Load() (*Config, error) {
	// .env is optional; real env vars take precedence.
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	dataPath := getStr("DATA_PATH", "")
	if dataPath == "" {
		return nil, fmt.Errorf("DATA_PATH is required")
	}

	strategy := getStr("STRATEGY", "taker")
	if !isValidStrategy(strategy) {
		return nil, fmt.Errorf("invalid STRATEGY: %q, must be one of: taker, meanrev, random, none", strategy)
	}

	strategyQty, err := getInt64("STRATEGY_QTY", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid STRATEGY_QTY: %w", err)
	}
	if strategyQty <= 0 {
		return nil, fmt.Errorf("invalid STRATEGY_QTY: must be positive")
	}

	spreadThreshold, err := getInt64("SPREAD_THRESHOLD", 500)
	if err != nil {
		return nil, fmt.Errorf("invalid SPREAD_THRESHOLD: %w", err)
	}
	if spreadThreshold < 0 {
		return nil, fmt.Errorf("invalid SPREAD_THRESHOLD: must be non-negative")
	}

	randomSeed, err := getInt64("RANDOM_SEED", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid RANDOM_SEED: %w", err)
	}

	maxEvents, err := getInt("MAX_EVENTS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_EVENTS: %w", err)
	}
	if maxEvents < 0 {
		return nil, fmt.Errorf("invalid MAX_EVENTS: must be non-negative")
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		DataPath:        dataPath,
		Strategy:        strategy,
		StrategyQty:     strategyQty,
		SpreadThreshold: spreadThreshold,
		RandomSeed:      randomSeed,
		MaxEvents:       maxEvents,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidStrategy(name string) bool {
	switch name {
	case "taker", "meanrev", "random", "none":
		return true
	}
	return false
}
