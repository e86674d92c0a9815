package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8000"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	DatabaseURL string `env:"DATABASE_URL"`

	FarcasterAPIKey  string  `env:"FARCASTER_API_KEY"`
	FarcasterBaseURL string  `env:"FARCASTER_BASE_URL" envDefault:"https://api.neynar.com/v2"`
	FarcasterRPS     float64 `env:"FARCASTER_RPS" envDefault:"10"`
	UseMockData      bool    `env:"USE_MOCK_DATA" envDefault:"false"`

	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"24h"`
	AnalysisCacheTTL     time.Duration `env:"ANALYSIS_CACHE_TTL" envDefault:"1h"`

	CatalogPath   string `env:"CATALOG_PATH"`
	TemplatesPath string `env:"TEMPLATES_PATH"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"static"`

	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`
	MatchLimit     int    `env:"MATCH_LIMIT" envDefault:"5"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MatchLimit <= 0 {
		cfg.MatchLimit = 5
	}
	return &cfg, nil
}

// MockMode indica si se usan datos sinteticos en lugar de Neynar.
func (c *Config) MockMode() bool {
	return c.UseMockData || strings.TrimSpace(c.FarcasterAPIKey) == ""
}
