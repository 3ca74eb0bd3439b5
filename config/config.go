package config

import (
	"log/slog"
	"os"
)

type AppConfig struct {
	PostgresURL  string
	RedditID     string
	RedditSecret string
	UserAgent    string
	ProxyURL     string
	MetricsAddr  string // optional; serves /metrics when set
	LogLevel     slog.Level
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.RedditID = loadRequired("REDDIT_ID")
	cfg.RedditSecret = loadRequired("REDDIT_SECRET")
	cfg.UserAgent = loadOptional("REDDIT_USER_AGENT", "linux:com.github.lbenko.redditarchiver:v1.0.0")
	cfg.ProxyURL = loadOptional("PROXY_URL", "")
	cfg.MetricsAddr = loadOptional("METRICS_ADDR", "")

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
