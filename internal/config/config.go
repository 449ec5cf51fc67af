package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Telegram  TelegramConfig
	Generator GeneratorConfig
	Renderer  RendererConfig
	Server    ServerConfig
	Logger    LoggerConfig
}

// TelegramConfig holds the bot transport configuration.
type TelegramConfig struct {
	Token         string
	AllowedUserID int64
	SendDelaySecs int // delay between successive photo deliveries
}

// GeneratorConfig holds receipt synthesis configuration.
type GeneratorConfig struct {
	WeekdayPolicy string  // "weekdays" or "all"
	CatalogFile   string  // optional JSON catalogue; empty uses the built-in one
	MinCartTotal  float64 // carts grow until this gross total is reached
	MaxDaysBack   int     // upper bound on the per-command day count
}

// RendererConfig holds raster output configuration.
type RendererConfig struct {
	LogoURL string
	Width   int
	Height  int
	Scale   int
	DPI     int
}

// ServerConfig holds the optional local preview HTTP server configuration.
type ServerConfig struct {
	Enabled bool
	Host    string
	Port    int
	APIKey  string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// defaultLogoURL is the vector wordmark the original deployment used.
const defaultLogoURL = "https://raw.githubusercontent.com/roo20/n8n/refs/heads/main/rewe_logo_icon_248646.svg"

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token:         getEnv("BOT_TOKEN", ""),
			AllowedUserID: getEnvAsInt64("ALLOWED_USER_ID", 0),
			SendDelaySecs: getEnvAsInt("SEND_DELAY_SECONDS", 1),
		},
		Generator: GeneratorConfig{
			WeekdayPolicy: getEnv("WEEKDAY_POLICY", "weekdays"),
			CatalogFile:   getEnv("CATALOG_FILE", ""),
			MinCartTotal:  getEnvAsFloat("MIN_CART_TOTAL", 7.0),
			MaxDaysBack:   getEnvAsInt("MAX_DAYS_BACK", 30),
		},
		Renderer: RendererConfig{
			LogoURL: getEnv("LOGO_URL", defaultLogoURL),
			Width:   getEnvAsInt("RENDER_WIDTH", 300),
			Height:  getEnvAsInt("RENDER_HEIGHT", 900),
			Scale:   getEnvAsInt("RENDER_SCALE", 4),
			DPI:     getEnvAsInt("RENDER_DPI", 300),
		},
		Server: ServerConfig{
			Enabled: getEnvAsBool("SERVER_ENABLED", false),
			Host:    getEnv("SERVER_HOST", "127.0.0.1"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			APIKey:  getEnv("API_KEY", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("bot token is required")
	}

	if c.Telegram.AllowedUserID == 0 {
		return fmt.Errorf("allowed user ID is required")
	}

	if c.Telegram.SendDelaySecs < 0 {
		return fmt.Errorf("send delay cannot be negative")
	}

	if c.Generator.WeekdayPolicy != "weekdays" && c.Generator.WeekdayPolicy != "all" {
		return fmt.Errorf("invalid weekday policy: %s (must be weekdays or all)", c.Generator.WeekdayPolicy)
	}

	if c.Generator.MinCartTotal <= 0 {
		return fmt.Errorf("minimum cart total must be positive")
	}

	if c.Generator.MaxDaysBack < 1 {
		return fmt.Errorf("max days back must be at least 1")
	}

	if c.Renderer.Width < 1 || c.Renderer.Height < 1 {
		return fmt.Errorf("render dimensions must be positive")
	}

	if c.Renderer.Scale < 1 {
		return fmt.Errorf("render scale must be at least 1")
	}

	if c.Server.Enabled {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d", c.Server.Port)
		}
		if c.Server.APIKey == "" {
			return fmt.Errorf("API key is required when the preview server is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// Address returns the preview server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a default value.
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
