package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/walletlens/walletlens/internal/secrets"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string

	// HTTP API
	Port            int
	RateLimitPerMin int
	CORSOrigins     []string

	// Database (analysis audit log)
	DatabaseDSN         string
	DatabaseMaxConns    int
	DatabaseMaxIdleTime time.Duration

	// Etherscan API
	EtherscanBaseURL string
	EtherscanAPIKey  string
	EtherscanRPS     float64

	// Alchemy NFT API
	AlchemyBaseURL string
	AlchemyAPIKey  string
	AlchemyRPS     float64

	// Wallet fetch
	TxHistoryLimit int
	CacheTTL       time.Duration
	RedisURL       string

	// Bio generation
	OpenAIAPIKey string
	OllamaURL    string
	BioModel     string
	BioMinWords  int
	BioTimeout   time.Duration

	// Metrics/Health
	MetricsPort int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:         getEnv("ENVIRONMENT", "production"),
		Port:                getEnvInt("PORT", 8080),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MIN", 120),
		DatabaseDSN:         getEnv("DATABASE_DSN", "walletlens:walletlens@tcp(mysql:3306)/walletlens?parseTime=true"),
		DatabaseMaxConns:    getEnvInt("DATABASE_MAX_CONNS", 25),
		DatabaseMaxIdleTime: time.Duration(getEnvInt("DATABASE_MAX_IDLE_TIME_MINS", 5)) * time.Minute,
		EtherscanBaseURL:    getEnv("ETHERSCAN_BASE_URL", "https://api.etherscan.io/api"),
		EtherscanAPIKey:     secrets.GetOptionalSecret("ETHERSCAN_API_KEY", ""),
		EtherscanRPS:        getEnvFloat("ETHERSCAN_RPS", 4.0),
		AlchemyBaseURL:      getEnv("ALCHEMY_BASE_URL", "https://eth-mainnet.g.alchemy.com"),
		AlchemyAPIKey:       secrets.GetOptionalSecret("ALCHEMY_API_KEY", ""),
		AlchemyRPS:          getEnvFloat("ALCHEMY_RPS", 5.0),
		TxHistoryLimit:      getEnvInt("TX_HISTORY_LIMIT", 1000),
		CacheTTL:            time.Duration(getEnvInt("WALLET_CACHE_TTL_SEC", 600)) * time.Second,
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		OpenAIAPIKey:        secrets.GetOptionalSecret("OPENAI_API_KEY", ""),
		OllamaURL:           getEnv("OLLAMA_URL", ""),
		BioModel:            getEnv("BIO_MODEL", ""),
		BioMinWords:         getEnvInt("BIO_MIN_WORDS", 10),
		BioTimeout:          time.Duration(getEnvInt("BIO_TIMEOUT_SEC", 30)) * time.Second,
		MetricsPort:         getEnvInt("METRICS_PORT", 9090),
	}

	// Parse CORS origins (comma-separated). Defaults cover local frontend dev.
	origins := getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000,http://127.0.0.1:3001")
	cfg.CORSOrigins = parseCSV(origins)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}

	if c.EtherscanAPIKey == "" {
		return fmt.Errorf("ETHERSCAN_API_KEY is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}

	if c.TxHistoryLimit <= 0 {
		return fmt.Errorf("TX_HISTORY_LIMIT must be positive")
	}

	if c.EtherscanRPS <= 0 || c.AlchemyRPS <= 0 {
		return fmt.Errorf("upstream RPS limits must be positive")
	}

	// Bio generation is optional; when a provider is configured pick a
	// default model for it.
	if c.BioModel == "" {
		if c.OpenAIAPIKey != "" {
			c.BioModel = "gpt-4o-mini"
		} else if c.OllamaURL != "" {
			c.BioModel = "llama3.1"
		}
	}

	return nil
}

// BioEnabled reports whether any text-generation provider is configured
func (c *Config) BioEnabled() bool {
	return c.OpenAIAPIKey != "" || c.OllamaURL != ""
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func parseCSV(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
