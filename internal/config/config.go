package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	rediscache "github.com/inklight-ai/condense/internal/cache/redis"
	"github.com/inklight-ai/condense/internal/extractor/pdf"
	"github.com/inklight-ai/condense/internal/provider/openai"
	"github.com/inklight-ai/condense/internal/related"
)

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Optimizer OptimizerConfig
	OpenAI    openai.Config
	Extractor pdf.Config
	Redis     rediscache.Config
	Related   related.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// OptimizerConfig contains optimization defaults.
type OptimizerConfig struct {
	// Model is the LLM used for smart summarization and cost estimation.
	Model string `env:"OPTIMIZER_MODEL" envDefault:"gpt-4o"`

	// DefaultMaxTokens is the token budget applied when a request omits one.
	DefaultMaxTokens int `env:"OPTIMIZER_MAX_TOKENS" envDefault:"4000"`

	// SmartInputBudget caps the tokens sent to the model by the smart
	// strategy, keeping the summarization request itself affordable.
	SmartInputBudget int `env:"OPTIMIZER_SMART_INPUT_BUDGET" envDefault:"6000"`

	// CacheTTL is the extracted-document cache lifetime in seconds.
	CacheTTL int `env:"EXTRACT_CACHE_TTL" envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	Server    *ServerConfig
	CORS      *CORSConfig
	Optimizer *OptimizerConfig
	OpenAI    *openai.Config
	Extractor *pdf.Config
	Redis     *rediscache.Config
	Related   *related.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Optimizer,
		&cfg.OpenAI,
		&cfg.Extractor,
		&cfg.Redis,
		&cfg.Related,
	}
}
