package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken  string `toml:"github_token"`
	GitHubAPIURL string `toml:"github_api_url"`
	GitHubWebURL string `toml:"github_web_url"`

	// Upstream HTTP timeout in seconds
	HTTPTimeout int `toml:"http_timeout"`

	// Cache TTL in seconds
	CacheTTL int `toml:"cache_ttl"`

	// Shared secret expected in X-RapidAPI-Proxy-Secret; empty disables the check
	ProxySecret string `toml:"rapidapi_proxy_secret"`

	// API Server
	APIPort string `toml:"api_port"`
	APIHost string `toml:"api_host"`

	// Per-client request rate policy, e.g. "30/minute". Carried for the
	// proxy in front of the API; the server does not enforce it.
	RateLimit string `toml:"rate_limit"`

	// CLI
	APIEndpoint string `toml:"api_endpoint"`

	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		GitHubAPIURL: "https://api.github.com/",
		GitHubWebURL: "https://github.com/",
		HTTPTimeout:  30,
		CacheTTL:     300,
		APIPort:      "8080",
		APIHost:      "localhost",
		APIEndpoint:  "http://localhost:8080",
		RateLimit:    "30/minute",
		LogLevel:     "info",
	}
}

// Load loads the configuration from .env, the TOML file named by
// CONFIG_FILE (if any) and environment variables, in that order of
// increasing precedence.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()
	return load(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit TOML file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()
	return load(path)
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.GitHubToken = getEnv("GITHUB_TOKEN", cfg.GitHubToken)
	cfg.GitHubAPIURL = getEnv("GITHUB_API_URL", cfg.GitHubAPIURL)
	cfg.GitHubWebURL = getEnv("GITHUB_WEB_URL", cfg.GitHubWebURL)
	cfg.ProxySecret = getEnv("RAPIDAPI_PROXY_SECRET", cfg.ProxySecret)
	cfg.APIPort = getEnv("API_PORT", cfg.APIPort)
	cfg.APIHost = getEnv("API_HOST", cfg.APIHost)
	cfg.APIEndpoint = getEnv("API_ENDPOINT", cfg.APIEndpoint)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)

	var err error
	if cfg.CacheTTL, err = getEnvInt("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvInt("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt is getEnv for integer values
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}

// CacheTTLDuration returns the cache TTL as a duration
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// HTTPTimeoutDuration returns the upstream timeout as a duration
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// Addr returns the host:port the API server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return &ConfigError{Field: "CACHE_TTL", Message: "must be a positive number of seconds"}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "HTTP_TIMEOUT", Message: "must be a positive number of seconds"}
	}
	if c.APIPort == "" {
		return &ConfigError{Field: "API_PORT", Message: "API port is required"}
	}
	if _, _, err := ParseRateLimit(c.RateLimit); err != nil {
		return &ConfigError{Field: "RATE_LIMIT", Message: err.Error()}
	}
	for field, raw := range map[string]string{
		"GITHUB_API_URL": c.GitHubAPIURL,
		"GITHUB_WEB_URL": c.GitHubWebURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ConfigError{Field: field, Message: "must be an absolute URL"}
		}
	}
	return nil
}

// ParseRateLimit splits a "<count>/<second|minute|hour|day>" policy
func ParseRateLimit(policy string) (int, time.Duration, error) {
	count, unit, ok := strings.Cut(policy, "/")
	if !ok {
		return 0, 0, fmt.Errorf("must look like 30/minute")
	}
	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return 0, 0, fmt.Errorf("count must be a positive integer")
	}
	switch unit {
	case "second":
		return n, time.Second, nil
	case "minute":
		return n, time.Minute, nil
	case "hour":
		return n, time.Hour, nil
	case "day":
		return n, 24 * time.Hour, nil
	}
	return 0, 0, fmt.Errorf("unknown period %q", unit)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
