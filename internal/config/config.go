// Package config loads settings from an optional YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Provider   string           `mapstructure:"provider"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Perplexity PerplexityConfig `mapstructure:"perplexity"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Log        LogConfig        `mapstructure:"log"`
}

type OpenAIConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	ExtractionModel string `mapstructure:"extraction_model"`
	AnalysisModel   string `mapstructure:"analysis_model"`
	MarketModel     string `mapstructure:"market_model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type PerplexityConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type ExtractionConfig struct {
	MaxPagesPerChunk        int           `mapstructure:"max_pages_per_chunk"`
	Concurrency             int           `mapstructure:"concurrency"`
	CallTimeout             time.Duration `mapstructure:"call_timeout"`
	StrictChunkVerification bool          `mapstructure:"strict_chunk_verification"`
	TempDir                 string        `mapstructure:"temp_dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.extraction_model", "gpt-4o")
	v.SetDefault("openai.analysis_model", "gpt-4o")
	v.SetDefault("openai.market_model", "gpt-5")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("extraction.max_pages_per_chunk", 20)
	v.SetDefault("extraction.concurrency", 1)
	v.SetDefault("extraction.call_timeout", "5m")
	v.SetDefault("extraction.strict_chunk_verification", false)
	v.SetDefault("extraction.temp_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and the environment are used. Environment variables override the file;
// nested keys map to upper case with underscores (EXTRACTION_CONCURRENCY).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// provider keys keep their conventional names
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini.api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("perplexity.api_key", "PERPLEXITY_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the selected provider is usable and the extraction
// settings are in range.
func (c *Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.Extraction.MaxPagesPerChunk < 1 {
		errs = append(errs, fmt.Errorf("extraction.max_pages_per_chunk must be positive, got %d", c.Extraction.MaxPagesPerChunk))
	}
	if c.Extraction.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("extraction.concurrency must be positive, got %d", c.Extraction.Concurrency))
	}
	if c.Extraction.CallTimeout <= 0 {
		errs = append(errs, errors.New("extraction.call_timeout must be positive"))
	}
	return errors.Join(errs...)
}
