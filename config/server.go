package config

import (
	"strings"

	"github.com/spf13/viper"
)

// ServerConfiguration type defines the server configurations
type ServerConfiguration struct {
	Debug            bool
	Host             string
	Port             string
	Environment      string
	SentryDSN        string
	LogLevel         string
	AllowedOrigins   []string
	RateLimitIntents int
	RateLimitReads   int
}

// ServerConfig sets the server configuration
func ServerConfig() *ServerConfiguration {
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_INTENTS", 5)
	viper.SetDefault("RATE_LIMIT_READS", 50)

	return &ServerConfiguration{
		Debug:            viper.GetBool("DEBUG"),
		Host:             viper.GetString("HOST"),
		Port:             viper.GetString("PORT"),
		Environment:      viper.GetString("ENVIRONMENT"),
		SentryDSN:        viper.GetString("SENTRY_DSN"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		AllowedOrigins:   strings.Split(viper.GetString("ALLOWED_ORIGINS"), ","),
		RateLimitIntents: viper.GetInt("RATE_LIMIT_INTENTS"),
		RateLimitReads:   viper.GetInt("RATE_LIMIT_READS"),
	}
}
