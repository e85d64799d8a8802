// Package config loads FinBridge settings from the environment and an optional .env file.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"finbridge/internal/logger"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database. DatabaseURL wins over the individual DB_* settings when set.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Auth
	SupabaseJWTSecret string
	AllowUserHeader   bool

	// Pipeline
	PipelineAPIKey string

	// HTTP
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

var appConfig *Config

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "finbridge")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SUPABASE_JWT_SECRET", "")
	v.SetDefault("AUTH_ALLOW_USER_HEADER", true)
	v.SetDefault("PIPELINE_API_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:8080")
	v.SetDefault("METRICS_ENABLED", true)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Warn(".env file not found, using environment only")
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	config := fromViper(v)
	if config.SupabaseJWTSecret == "" && !config.AllowUserHeader {
		logger.Get().Warn("SUPABASE_JWT_SECRET is empty and AUTH_ALLOW_USER_HEADER is off: every request will be rejected")
	}

	appConfig = config
	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port: v.GetString("PORT"),
		Env:  v.GetString("ENV"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),

		SupabaseJWTSecret: v.GetString("SUPABASE_JWT_SECRET"),
		AllowUserHeader:   v.GetBool("AUTH_ALLOW_USER_HEADER"),

		PipelineAPIKey: v.GetString("PIPELINE_API_KEY"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			logger.Get().Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
