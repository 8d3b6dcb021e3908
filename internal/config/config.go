// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port               string
	FrontendURL        string
	DataAPIURL         string // spreadsheet-backed data API (GET data, POST logs)
	HTTPTimeout        time.Duration
	DataCacheTTL       time.Duration
	SessionTTL         time.Duration
	BotName            string
	AllowedOrigins     []string
	MaxRequestBodySize int64
	Escalation         EscalationConfig
	RateLimit          RateLimitConfig
	ConversationLog    ConversationLogConfig
}

// EscalationConfig controls the escalate-to-HR flow.
type EscalationConfig struct {
	Trigger     string
	Contact     string
	FormEnabled bool
	LogType     string
}

// RateLimitConfig controls per-client action throttling.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// ConversationLogConfig controls JSON transcript logging.
type ConversationLogConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		DataAPIURL:         getEnv("DATA_API_URL", ""),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		DataCacheTTL:       getEnvDuration("DATA_CACHE_TTL", 5*time.Minute),
		SessionTTL:         getEnvDuration("SESSION_TTL", 60*time.Minute),
		BotName:            getEnv("BOT_NAME", "総務サポートBot"),
		AllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 64<<10)),
		Escalation: EscalationConfig{
			Trigger:     getEnv("ESCALATION_TRIGGER", "担当者へ連絡"),
			Contact:     getEnv("ESCALATION_CONTACT", "人事部の木村"),
			FormEnabled: getEnvBool("ESCALATION_FORM_ENABLED", true),
			LogType:     getEnv("ESCALATION_LOG_TYPE", "🚨エスカレーション"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 30),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		ConversationLog: ConversationLogConfig{
			Enabled:   getEnvBool("CONVERSATION_LOG_ENABLED", false),
			Dir:       getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DataAPIURL == "" {
		return fmt.Errorf("DATA_API_URL cannot be empty")
	}
	if !strings.HasPrefix(c.DataAPIURL, "http://") && !strings.HasPrefix(c.DataAPIURL, "https://") {
		return fmt.Errorf("DATA_API_URL must be an http(s) URL")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.DataCacheTTL < 0 {
		return fmt.Errorf("DATA_CACHE_TTL cannot be negative")
	}
	if strings.TrimSpace(c.Escalation.Trigger) == "" {
		return fmt.Errorf("ESCALATION_TRIGGER cannot be empty")
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
