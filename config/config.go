package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"content_strategy_designer/generator"
	"content_strategy_designer/view"
)

// Config is the complete application configuration.
type Config struct {
	ServerAddr string `mapstructure:"server_addr"`
	// CORSOrigins enables CORS on the JSON API for these origins.
	CORSOrigins  []string           `mapstructure:"cors_origins"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Generator    GeneratorConfig    `mapstructure:"generator"`
	Presentation PresentationConfig `mapstructure:"presentation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

// LLMConfig selects and configures the model collaborator.
type LLMConfig struct {
	// Provider is one of "vertex", "gemini", "openai", "deepseek", "mock".
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	// Project and Location are used by the vertex provider.
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	// JSONMode asks the provider for a JSON-only response when it supports it.
	JSONMode bool `mapstructure:"json_mode"`
	// TimeoutSeconds bounds a model call; 0 waits for as long as the model takes.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// GeneratorConfig controls response extraction.
type GeneratorConfig struct {
	// Extraction is "balanced" or "lenient".
	Extraction string `mapstructure:"extraction"`
	// StrictShape fails generation when a section is missing.
	StrictShape bool `mapstructure:"strict_shape"`
}

// PresentationConfig controls the rendered views.
type PresentationConfig struct {
	// CheckboxKeying is "section_index" or "item_text".
	CheckboxKeying string `mapstructure:"checkbox_keying"`
}

type LoggingConfig struct {
	// Mode is "dev" or "prod".
	Mode string `mapstructure:"mode"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		ServerAddr: ":8080",
		LLM: LLMConfig{
			Provider: "vertex",
			Model:    "gemini-2.5-flash",
			Project:  "content-strategy-pro",
			Location: "us-central1",
		},
		Generator: GeneratorConfig{
			Extraction: string(generator.ExtractBalanced),
		},
		Presentation: PresentationConfig{
			CheckboxKeying: string(view.KeyBySectionIndex),
		},
		Logging: LoggingConfig{Mode: "dev"},
		Tracing: TracingConfig{
			ServiceName: "content-strategy-designer",
			SampleRatio: 1,
		},
	}
}

// SetDefaults registers Default() with viper so every key resolves without a file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server_addr", d.ServerAddr)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.project", d.LLM.Project)
	v.SetDefault("llm.location", d.LLM.Location)
	v.SetDefault("llm.json_mode", d.LLM.JSONMode)
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)

	v.SetDefault("generator.extraction", d.Generator.Extraction)
	v.SetDefault("generator.strict_shape", d.Generator.StrictShape)

	v.SetDefault("presentation.checkbox_keying", d.Presentation.CheckboxKeying)

	v.SetDefault("logging.mode", d.Logging.Mode)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)
}

// NewViper returns a viper instance with defaults, env overrides
// (STRATEGY_LLM_API_KEY for llm.api_key) and the config search path.
// An explicit file must exist; a missing file on the search path is ignored.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("STRATEGY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(ConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and provider requirements.
func (c *Config) Validate() error {
	var errs []string
	switch strings.ToLower(c.LLM.Provider) {
	case "vertex", "gemini", "openai", "deepseek", "mock":
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q not supported", c.LLM.Provider))
	}
	if strings.EqualFold(c.LLM.Provider, "deepseek") && c.LLM.BaseURL == "" {
		errs = append(errs, "llm.base_url is required for provider deepseek")
	}
	if c.LLM.TimeoutSeconds < 0 {
		errs = append(errs, "llm.timeout_seconds must not be negative")
	}
	if _, err := generator.ParseExtractMode(c.Generator.Extraction); err != nil {
		errs = append(errs, "generator.extraction: "+err.Error())
	}
	if _, err := view.ParseKeyMode(c.Presentation.CheckboxKeying); err != nil {
		errs = append(errs, "presentation.checkbox_keying: "+err.Error())
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, "tracing.sample_ratio must be within [0, 1]")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LLMSettings converts the llm block for generator.NewLLM.
func (c *Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
		Project:  c.LLM.Project,
		Location: c.LLM.Location,
		JSONMode: c.LLM.JSONMode,
	}
}

// Timeout is the model call bound; zero means none.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExtractMode returns the validated extraction mode.
func (c *Config) ExtractMode() generator.ExtractMode {
	m, err := generator.ParseExtractMode(c.Generator.Extraction)
	if err != nil {
		return generator.ExtractBalanced
	}
	return m
}

// KeyMode returns the validated checkbox keying.
func (c *Config) KeyMode() view.KeyMode {
	m, err := view.ParseKeyMode(c.Presentation.CheckboxKeying)
	if err != nil {
		return view.KeyBySectionIndex
	}
	return m
}

// ConfigDir returns the user's config directory for this tool.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "content-strategy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".content-strategy"
	}
	return filepath.Join(home, ".config", "content-strategy")
}
