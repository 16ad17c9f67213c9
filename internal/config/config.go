package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// InvalidationPolicyTasks clears the schedule only when tasks change
	InvalidationPolicyTasks = "tasks"
	// InvalidationPolicyInputs also clears the schedule on energy or mood changes
	InvalidationPolicyInputs = "inputs"
)

// Config holds application configuration
type Config struct {
	ScheduleAPIURL     string        `yaml:"schedule_api_url"`
	ScheduleAPITimeout time.Duration `yaml:"schedule_api_timeout"`
	ServerPort         string        `yaml:"server_port"`
	FrontendURL        string        `yaml:"frontend_url"`
	EnableHSTS         bool          `yaml:"enable_hsts"`
	ServerDebugMode    bool          `yaml:"server_debug_mode"`
	GenerateRateLimit  string        `yaml:"generate_rate_limit"`
	RedisURL           string        `yaml:"redis_url"`
	SessionIdleTTL     time.Duration `yaml:"session_idle_ttl"`
	InvalidationPolicy string        `yaml:"invalidation_policy"`
	OTELEnabled        bool          `yaml:"otel_enabled"`
	OTELEndpoint       string        `yaml:"otel_endpoint"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		ScheduleAPIURL:     "http://localhost:8000",
		ScheduleAPITimeout: 30 * time.Second,
		ServerPort:         "8080",
		FrontendURL:        "http://localhost:5173,http://localhost:3000,http://localhost",
		GenerateRateLimit:  "10-M",
		SessionIdleTTL:     2 * time.Hour,
		InvalidationPolicy: InvalidationPolicyTasks,
	}
}

// Load loads configuration from an optional YAML file (PLANNER_CONFIG) and
// then from environment variables, which take precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("PLANNER_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ScheduleAPIURL = getEnv("SCHEDULE_API_URL", cfg.ScheduleAPIURL)
	cfg.ScheduleAPITimeout = getEnvDuration("SCHEDULE_API_TIMEOUT", cfg.ScheduleAPITimeout)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.GenerateRateLimit = getEnv("GENERATE_RATE_LIMIT", cfg.GenerateRateLimit)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.SessionIdleTTL = getEnvDuration("SESSION_IDLE_TTL", cfg.SessionIdleTTL)
	cfg.InvalidationPolicy = getEnv("INVALIDATION_POLICY", cfg.InvalidationPolicy)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.ScheduleAPIURL == "" {
		return fmt.Errorf("SCHEDULE_API_URL is required")
	}
	u, err := url.Parse(c.ScheduleAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SCHEDULE_API_URL must be an absolute http(s) URL, got %q", c.ScheduleAPIURL)
	}
	if c.ScheduleAPITimeout <= 0 {
		return fmt.Errorf("SCHEDULE_API_TIMEOUT must be positive")
	}
	switch c.InvalidationPolicy {
	case InvalidationPolicyTasks, InvalidationPolicyInputs:
	default:
		return fmt.Errorf("INVALIDATION_POLICY must be %q or %q, got %q", InvalidationPolicyTasks, InvalidationPolicyInputs, c.InvalidationPolicy)
	}
	return nil
}

// AllowedOrigins splits FrontendURL into a de-duplicated origin list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	seen := make(map[string]bool)
	for _, origin := range strings.Split(c.FrontendURL, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		origins = append(origins, trimmed)
	}
	return origins
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or bare seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
