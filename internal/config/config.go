// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. SYMTRAIN_DATA_DIR
const EnvPrefix = "SYMTRAIN"

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file and overridden from the environment. Zero values mean "use the default".
type Config struct {
	// Paths
	DataDir    string `mapstructure:"data_dir" json:"data_dir,omitempty"`       // Directory of simulation JSON files
	ImageDir   string `mapstructure:"image_dir" json:"image_dir,omitempty"`     // Fallback directory for screenshots
	OutputDir  string `mapstructure:"output_dir" json:"output_dir,omitempty"`   // Annotated image output directory
	FontPath   string `mapstructure:"font_path" json:"font_path,omitempty"`     // TrueType font for hotspot labels
	SQLitePath string `mapstructure:"sqlite_path" json:"sqlite_path,omitempty"` // Local cache database

	// LLM
	Provider  string `mapstructure:"provider" json:"provider,omitempty" validate:"omitempty,oneof=gemini ollama"`
	APIKey    string `mapstructure:"api_key" json:"api_key,omitempty"`
	Model     string `mapstructure:"model" json:"model,omitempty"`
	OllamaURL string `mapstructure:"ollama_url" json:"ollama_url,omitempty" validate:"omitempty,url"`

	// Storage
	DatabaseURL string `mapstructure:"database_url" json:"database_url,omitempty"` // PostgreSQL connection URL

	// Mapping
	Threshold        float64 `mapstructure:"threshold" json:"threshold,omitempty" validate:"gte=0,lte=2"`
	MaxImageReuse    int     `mapstructure:"max_image_reuse" json:"max_image_reuse,omitempty" validate:"gte=0"`
	DiversityPenalty float64 `mapstructure:"diversity_penalty" json:"diversity_penalty,omitempty" validate:"gte=0,lte=2"`
	Debug            bool    `mapstructure:"debug" json:"debug,omitempty"`

	// Analysis
	NExamples   int `mapstructure:"n_examples" json:"n_examples,omitempty" validate:"gte=0"`
	TopK        int `mapstructure:"top_k" json:"top_k,omitempty" validate:"gte=0"`
	NClusters   int `mapstructure:"n_clusters" json:"n_clusters,omitempty" validate:"gte=0"`
	Concurrency int `mapstructure:"concurrency" json:"concurrency,omitempty" validate:"gte=0"`

	// Ambient
	LogLevel  string `mapstructure:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
	Port      int    `mapstructure:"port" json:"port,omitempty" validate:"gte=0,lte=65535"`
}

// keys lists every configuration key for environment binding
var keys = []string{
	"data_dir", "image_dir", "output_dir", "font_path", "sqlite_path",
	"provider", "api_key", "model", "ollama_url", "database_url",
	"threshold", "max_image_reuse", "diversity_penalty", "debug",
	"n_examples", "top_k", "n_clusters", "concurrency",
	"log_level", "log_format", "port",
}

// unprefixed are conventional environment names accepted in addition to SYMTRAIN_*
var unprefixed = map[string]string{
	"database_url": "DATABASE_URL",
	"ollama_url":   "OLLAMA_API_URL",
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		DataDir:          "data",
		OutputDir:        "output",
		SQLitePath:       ".symtrain/cache.db",
		Provider:         string(llm.ProviderGemini),
		OllamaURL:        llm.DefaultOllamaURL,
		Threshold:        0.15,
		MaxImageReuse:    3,
		DiversityPenalty: 0.15,
		NExamples:        3,
		TopK:             5,
		NClusters:        5,
		Concurrency:      4,
		LogLevel:         "info",
		LogFormat:        "console",
		Port:             8080,
	}
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(key)}
		if alt, ok := unprefixed[key]; ok {
			names = append(names, alt)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return v, nil
}

// Load reads the config file at path, when one is given, and applies
// environment overrides. Defaults are not applied; see MergeWithDefaults.
// The file format follows the extension (.json, .yaml, .yml).
func Load(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that configured values are in range.
// Note: Required inputs are checked by each command after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: data_dir is not a directory: %s", c.DataDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.DataDir, defaults.DataDir)
	fillString(&result.ImageDir, defaults.ImageDir)
	fillString(&result.OutputDir, defaults.OutputDir)
	fillString(&result.FontPath, defaults.FontPath)
	fillString(&result.SQLitePath, defaults.SQLitePath)
	fillString(&result.Provider, defaults.Provider)
	fillString(&result.APIKey, defaults.APIKey)
	fillString(&result.Model, defaults.Model)
	fillString(&result.OllamaURL, defaults.OllamaURL)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.LogLevel, defaults.LogLevel)
	fillString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.Threshold == 0 {
		result.Threshold = defaults.Threshold
	}
	if result.DiversityPenalty == 0 {
		result.DiversityPenalty = defaults.DiversityPenalty
	}
	fillInt(&result.MaxImageReuse, defaults.MaxImageReuse)
	fillInt(&result.NExamples, defaults.NExamples)
	fillInt(&result.TopK, defaults.TopK)
	fillInt(&result.NClusters, defaults.NClusters)
	fillInt(&result.Concurrency, defaults.Concurrency)
	fillInt(&result.Port, defaults.Port)

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// ResolveAPIKey returns the configured key or the provider's conventional
// environment variable (GEMINI_API_KEY or OLLAMA_API_KEY).
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if llm.Provider(c.Provider) == llm.ProviderOllama {
		return os.Getenv("OLLAMA_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

// LLMConfig builds the client configuration for the selected provider
func (c *Config) LLMConfig() *llm.Config {
	if llm.Provider(c.Provider) == llm.ProviderOllama {
		model := c.Model
		if model == "" {
			model = os.Getenv("OLLAMA_MODEL")
		}
		return llm.DefaultOllamaConfig(c.OllamaURL, model)
	}

	cfg := llm.DefaultGeminiConfig()
	if c.Model != "" {
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			cfg = cfg.WithModel(tier, c.Model)
		}
	}
	return cfg
}

// LoggingConfig returns the logger settings
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func fillInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
