package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Assembly AssemblyAIConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8001"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// OpenAIConfig holds the primary generative slot configuration
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_API_URL" default:"https://api.openai.com"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	// Alternate model identifiers tried within the slot when the configured
	// model is reported unavailable.
	FallbackModels []string      `envconfig:"OPENAI_FALLBACK_MODELS" default:"gpt-4o,gpt-3.5-turbo"`
	Timeout        time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
}

// GeminiConfig holds the secondary generative slot configuration
type GeminiConfig struct {
	APIKey         string        `envconfig:"GOOGLE_API_KEY"`
	BaseURL        string        `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com"`
	Model          string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	FallbackModels []string      `envconfig:"GEMINI_FALLBACK_MODELS" default:"gemini-1.5-flash"`
	Timeout        time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// PipelineConfig holds pipeline tunables
type PipelineConfig struct {
	// DefaultLanguage is the two-letter language hint used when the request
	// does not carry one.
	DefaultLanguage string `envconfig:"PIPELINE_DEFAULT_LANGUAGE" default:"vi"`
	// MaxParseRetries bounds corrective re-prompts after malformed JSON.
	MaxParseRetries int `envconfig:"PIPELINE_MAX_PARSE_RETRIES" default:"2"`
	// MaxActionItems and MaxDecisions cap extraction output size.
	MaxActionItems int `envconfig:"PIPELINE_MAX_ACTION_ITEMS" default:"15"`
	MaxDecisions   int `envconfig:"PIPELINE_MAX_DECISIONS" default:"15"`
	// MinActions/MinDecisions: below these counts a generative extraction is
	// augmented with rule-based results. Product-tunable, not a hard rule.
	MinActions   int `envconfig:"PIPELINE_MIN_ACTIONS" default:"3"`
	MinDecisions int `envconfig:"PIPELINE_MIN_DECISIONS" default:"2"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pipeline.MaxParseRetries < 0 {
		return fmt.Errorf("PIPELINE_MAX_PARSE_RETRIES must not be negative")
	}
	if c.Pipeline.MaxActionItems <= 0 || c.Pipeline.MaxDecisions <= 0 {
		return fmt.Errorf("extraction caps must be positive")
	}
	// Provider keys are optional: with no slot configured every task degrades
	// to the deterministic engines.
	return nil
}

// HasGenerativeSlot reports whether at least one generative backend is configured.
func (c *Config) HasGenerativeSlot() bool {
	return c.OpenAI.APIKey != "" || c.Gemini.APIKey != ""
}
