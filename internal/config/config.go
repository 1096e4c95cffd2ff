package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port                  string
	DBURL                 string
	CatalogURL            string
	CatalogAPIKey         string
	CatalogTimeoutSecs    int
	CatalogRPS            int
	CompletionURL         string
	CompletionAPIKey      string
	CompletionModel       string
	CompletionMaxTokens   int
	CompletionTimeoutSecs int
	EnrichConcurrency     int
	ReadTimeoutSecs       int
	WriteTimeoutSecs      int
	IdleTimeoutSecs       int
	DBMaxConns            int
	DBMinConns            int
	DBMaxIdleSecs         int
	DBMaxLifeSecs         int
	DBConnTimeoutSecs     int
	DBStatementCache      int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		DBURL:                 os.Getenv("DB_URL"),
		CatalogURL:            getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
		CatalogAPIKey:         os.Getenv("TMDB_API_KEY"),
		CatalogTimeoutSecs:    getEnvInt("TMDB_TIMEOUT_SECS", 5),
		CatalogRPS:            getEnvInt("TMDB_RPS", 20),
		CompletionURL:         getEnv("COMPLETION_URL", "https://api.anthropic.com"),
		CompletionAPIKey:      os.Getenv("COMPLETION_API_KEY"),
		CompletionModel:       getEnv("COMPLETION_MODEL", "claude-sonnet-4-20250514"),
		CompletionMaxTokens:   getEnvInt("COMPLETION_MAX_TOKENS", 1024),
		CompletionTimeoutSecs: getEnvInt("COMPLETION_TIMEOUT_SECS", 30),
		EnrichConcurrency:     getEnvInt("ENRICH_CONCURRENCY", 3),
		ReadTimeoutSecs:       getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:      getEnvInt("SERVER_WRITE_TIMEOUT", 60),
		IdleTimeoutSecs:       getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:            getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:            getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:         getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:         getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:     getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:      getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.CatalogAPIKey == "" {
		return Config{}, fmt.Errorf("TMDB_API_KEY is required")
	}
	if cfg.CompletionAPIKey == "" {
		return Config{}, fmt.Errorf("COMPLETION_API_KEY is required")
	}
	if cfg.CatalogTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.CatalogRPS <= 0 {
		return Config{}, fmt.Errorf("TMDB_RPS must be positive")
	}
	if cfg.CompletionMaxTokens <= 0 {
		return Config{}, fmt.Errorf("COMPLETION_MAX_TOKENS must be positive")
	}
	if cfg.CompletionTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("COMPLETION_TIMEOUT_SECS must be positive")
	}
	if cfg.EnrichConcurrency <= 0 {
		return Config{}, fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
