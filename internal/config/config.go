package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// API settings
	APIAddr string
	APIKey  string
	DevMode bool

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Subgraph settings
	SubgraphURL    string
	SubgraphAPIKey string

	// Routing oracle settings
	RouterURL    string
	RouterAPIKey string

	// Price feed settings
	PollInterval time.Duration

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Fund-level execution settings
	FundMaxSlippageBps int

	// AI settings
	OpenRouterAPIKey string
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "stele"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Subgraph
		SubgraphURL:    getEnv("SUBGRAPH_URL", "https://api.thegraph.com/subgraphs/name/stele/stele-mainnet"),
		SubgraphAPIKey: getEnv("SUBGRAPH_API_KEY", ""),

		// Routing oracle
		RouterURL:    getEnv("ROUTER_URL", ""),
		RouterAPIKey: getEnv("ROUTER_API_KEY", ""),

		// Price feed
		PollInterval: getDurationEnv("POLL_INTERVAL", 30*time.Second),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),

		// Execution
		FundMaxSlippageBps: getIntEnv("FUND_MAX_SLIPPAGE_BPS", 100),

		// AI
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
	}
}

func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.FundMaxSlippageBps < 0 || c.FundMaxSlippageBps >= 10000 {
		return fmt.Errorf("FUND_MAX_SLIPPAGE_BPS must be in [0, 10000)")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
