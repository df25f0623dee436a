// Package config loads the runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Assistant AssistantConfig
	Assets    AssetsConfig
	Alerts    AlertsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

// AssistantConfig configures the reasoning service and the pipeline
// around it.
type AssistantConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestTimeout    time.Duration
	ImageTTL          time.Duration
	LowStockThreshold int
}

type AssetsConfig struct {
	Dir     string
	BaseURL string
}

// AlertsConfig drives the daily low-stock digest. Empty SMTPHost
// disables it.
type AlertsConfig struct {
	SMTPHost  string
	SMTPPort  string
	From      string
	Recipient string
	Interval  time.Duration
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")
	viper.SetDefault("LLM_TIMEOUT_SECONDS", 60)
	viper.SetDefault("IMAGE_TTL_MINUTES", 10)
	viper.SetDefault("LOW_STOCK_THRESHOLD", 10)
	viper.SetDefault("ASSET_DIR", "./assets")
	viper.SetDefault("ASSET_BASE_URL", "http://localhost:8080/assets")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("ALERT_INTERVAL_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			URL: viper.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Assistant: AssistantConfig{
			APIKey:            viper.GetString("LLM_API_KEY"),
			BaseURL:           viper.GetString("LLM_BASE_URL"),
			Model:             viper.GetString("LLM_MODEL"),
			RequestTimeout:    time.Duration(viper.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
			ImageTTL:          time.Duration(viper.GetInt("IMAGE_TTL_MINUTES")) * time.Minute,
			LowStockThreshold: viper.GetInt("LOW_STOCK_THRESHOLD"),
		},
		Assets: AssetsConfig{
			Dir:     viper.GetString("ASSET_DIR"),
			BaseURL: viper.GetString("ASSET_BASE_URL"),
		},
		Alerts: AlertsConfig{
			SMTPHost:  viper.GetString("SMTP_HOST"),
			SMTPPort:  viper.GetString("SMTP_PORT"),
			From:      viper.GetString("ALERT_FROM"),
			Recipient: viper.GetString("ALERT_RECIPIENT"),
			Interval:  time.Duration(viper.GetInt("ALERT_INTERVAL_HOURS")) * time.Hour,
		},
	}
}
