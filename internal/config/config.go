package config

import (
	"os"
	"strings"
	"time"

	"gemini2api/internal/core"
	"gemini2api/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port               string
	GinMode            string
	GeminiAPIKey       string
	GeminiBaseURL      string
	OpenRouterAPIKey   string
	OpenRouterBaseURL  string
	HTTPClientSettings HTTPClientSettings
	Storage            core.StorageInterface
	Logger             core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// LoadServerConfigFromEnv loads server config from environment variables.
// GEMINI_API_KEY selects the primary provider; without it every request
// falls back to OpenRouter.
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	openRouterAPIKey := os.Getenv("OPENROUTER_API_KEY")

	if geminiAPIKey != "" {
		logger.Info("Gemini API key configured, using Gemini as primary provider")
	} else if openRouterAPIKey != "" {
		logger.Info("No Gemini API key, falling back to OpenRouter for all requests")
	} else {
		logger.Warn("Neither GEMINI_API_KEY nor OPENROUTER_API_KEY configured, upstream calls will fail")
	}

	config := ServerConfig{
		Port:               util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:            util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		GeminiAPIKey:       geminiAPIKey,
		GeminiBaseURL:      normalizeBaseURL(util.GetEnvWithDefault("GEMINI_BASE_URL", core.GeminiDefaultBaseURL)),
		OpenRouterAPIKey:   openRouterAPIKey,
		OpenRouterBaseURL:  normalizeBaseURL(util.GetEnvWithDefault("OPENROUTER_BASE_URL", core.OpenRouterDefaultBaseURL)),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	return config, nil
}

// normalizeBaseURL strips a trailing slash so endpoint paths can be appended directly.
func normalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/")
}
