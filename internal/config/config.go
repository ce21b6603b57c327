package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/wallet-bridge/wallet-bridge/internal/validation"
)

// DefaultChainCAIP2 identifies the network all sponsored transactions target
// unless overridden. Base Sepolia.
const DefaultChainCAIP2 = "eip155:84532"

// Config holds infrastructure-level configuration.
// Identity and wallet state live in the external providers; the only
// optional local resource is the Postgres audit trail.
type Config struct {
	// Server
	Port int

	// Auth provider (Supabase / GoTrue compatible)
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseCookieName string

	// Wallet provider (Privy compatible)
	PrivyBaseURL   string
	PrivyAppID     string
	PrivyAppSecret string

	// Chain targeted by sponsored transactions, CAIP-2 form
	ChainCAIP2 string

	// Optional audit trail; disabled when empty
	PostgresDSN string

	// Rate limiting
	RateLimitRPS     int
	RateLimitBurst   int
	RateLimitEnabled bool

	// Logging
	LogFormat string
	LogLevel  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnvInt("PORT", 8080),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseCookieName: getEnv("SUPABASE_AUTH_COOKIE", "sb-access-token"),
		PrivyBaseURL:       getEnv("PRIVY_BASE_URL", "https://api.privy.io"),
		PrivyAppID:         getEnv("PRIVY_APP_ID", ""),
		PrivyAppSecret:     getEnv("PRIVY_APP_SECRET", ""),
		ChainCAIP2:         getEnv("CHAIN_CAIP2", DefaultChainCAIP2),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		RateLimitRPS:       getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if _, err := url.ParseRequestURI(c.SupabaseURL); err != nil {
		return fmt.Errorf("SUPABASE_URL is not a valid URL: %w", err)
	}

	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}

	if c.PrivyAppID == "" {
		return fmt.Errorf("PRIVY_APP_ID is required")
	}

	if c.PrivyAppSecret == "" {
		return fmt.Errorf("PRIVY_APP_SECRET is required")
	}

	if err := validation.ValidateCAIP2(c.ChainCAIP2); err != nil {
		return fmt.Errorf("CHAIN_CAIP2: %w", err)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}
