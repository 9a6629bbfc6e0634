package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"edupath.db"`

	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTLSeconds int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"300"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	LLMBreakerFailures        uint32 `env:"LLM_BREAKER_FAILURES" envDefault:"5"`
	LLMBreakerCooldownSeconds int    `env:"LLM_BREAKER_COOLDOWN_SECONDS" envDefault:"30"`

	AdviceRateLimit         int `env:"ADVICE_RATE_LIMIT" envDefault:"10"`
	AdviceRateWindowSeconds int `env:"ADVICE_RATE_WINDOW_SECONDS" envDefault:"3600"`

	JWTSecret             string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes   int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes  int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`
	QuizSessionTTLMinutes int    `env:"QUIZ_SESSION_TTL_MINUTES" envDefault:"120"`

	StreamsFile        string `env:"STREAMS_FILE"`
	AcademicQuestionID string `env:"ACADEMIC_QUESTION_ID" envDefault:"academic_1"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.LLMProvider {
	case LLMProviderOpenAI, LLMProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
	return nil
}

// LLMEnabled indica si hay credenciales para el proveedor elegido.
func (c *Config) LLMEnabled() bool {
	if c.LLMProvider == LLMProviderGemini {
		return c.GeminiAPIKey != ""
	}
	return c.LLMAPIKey != ""
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

func (c *Config) AdviceRateWindow() time.Duration {
	return time.Duration(c.AdviceRateWindowSeconds) * time.Second
}

func (c *Config) LLMBreakerCooldown() time.Duration {
	return time.Duration(c.LLMBreakerCooldownSeconds) * time.Second
}

func (c *Config) QuizSessionTTL() time.Duration {
	return time.Duration(c.QuizSessionTTLMinutes) * time.Minute
}
