package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Extraction ExtractionConfig
	Session    SessionConfig
	Infra      InfraConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	Environment        string
	LogFilePath        string `validate:"required"`
	WsLogFilePath      string `validate:"required"`
	CorsAllowedOrigins string
	MaxUploadMB        int `validate:"gt=0"`
}

type ExtractionConfig struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"` // 0 = wait for the transport
}

type SessionConfig struct {
	Secret          string        `validate:"required"`
	TTL             time.Duration `validate:"gt=0"`
	CleanupInterval time.Duration `validate:"gt=0"`
}

type InfraConfig struct {
	StateTopic string `validate:"required"`
	RedisURL   string // optional, enables cross-instance websocket fanout
	NatsURL    string // optional, enables outcome events
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 10),
		},
		Extraction: ExtractionConfig{
			URL:     getEnv("EXTRACTION_URL", "http://localhost:5000/api/extract"),
			Timeout: getEnvAsDuration("EXTRACTION_TIMEOUT", 0),
		},
		Session: SessionConfig{
			Secret:          getEnv("SESSION_SECRET", ""),
			TTL:             getEnvAsDuration("SESSION_TTL", time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Infra: InfraConfig{
			StateTopic: getEnv("STATE_TOPIC", "ui.state.changed"),
			RedisURL:   getEnv("REDIS_URL", ""),
			NatsURL:    getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}

	if cfg.Session.Secret == "" {
		// Tokens stop verifying after a restart, which only logs users out.
		log.Println("Note: SESSION_SECRET not set, using a random per-process secret")
		cfg.Session.Secret = uuid.NewString()
	}
	return cfg
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := getEnv(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
