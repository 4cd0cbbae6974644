package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ScriptBackendGemini = "gemini"
	ScriptBackendRelay  = "relay"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey  string
	GeminiBaseURL string
	ScriptModel   string
	ImageModel    string
	VideoModel    string

	ScriptBackend string
	RelayURL      string
	RelayToken    string

	CredentialsDBPath string

	VideoPollInterval time.Duration
	VideoPollDeadline time.Duration

	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ScriptModel:   getEnv("SCRIPT_MODEL", "gemini-2.5-flash"),
		ImageModel:    getEnv("IMAGE_MODEL", "gemini-2.5-flash-image"),
		VideoModel:    getEnv("VIDEO_MODEL", "veo-3.1-fast-generate-preview"),

		ScriptBackend: getEnv("SCRIPT_BACKEND", ScriptBackendGemini),
		RelayURL:      os.Getenv("RELAY_URL"),
		RelayToken:    os.Getenv("RELAY_TOKEN"),

		CredentialsDBPath: getEnv("CREDENTIALS_DB_PATH", "data/credentials.db"),

		VideoPollInterval: time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		VideoPollDeadline: time.Second * time.Duration(getEnvInt("VIDEO_POLL_DEADLINE_SECONDS", 600)),

		CORSAllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 660)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.ScriptBackend {
	case ScriptBackendGemini:
	case ScriptBackendRelay:
		if cfg.RelayURL == "" {
			return nil, fmt.Errorf("RELAY_URL is required when SCRIPT_BACKEND=relay")
		}
	default:
		return nil, fmt.Errorf("unsupported SCRIPT_BACKEND %q", cfg.ScriptBackend)
	}

	if cfg.VideoPollInterval <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL_SECONDS must be positive")
	}

	// The write timeout must outlast the longest video poll, or the server
	// kills the connection before the handler can write the result.
	if cfg.VideoPollDeadline > 0 && cfg.HTTPWriteTimeout > 0 && cfg.HTTPWriteTimeout <= cfg.VideoPollDeadline {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT_SECONDS (%s) must exceed VIDEO_POLL_DEADLINE_SECONDS (%s)",
			cfg.HTTPWriteTimeout, cfg.VideoPollDeadline)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
