package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_strategy_designer/generator"
	"content_strategy_designer/view"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "vertex", cfg.LLM.Provider)
	assert.Equal(t, "content-strategy-pro", cfg.LLM.Project)
	assert.Equal(t, "us-central1", cfg.LLM.Location)
	assert.Equal(t, time.Duration(0), cfg.LLM.Timeout(), "no timeout by default")
	assert.Equal(t, generator.ExtractBalanced, cfg.ExtractMode())
	assert.Equal(t, view.KeyBySectionIndex, cfg.KeyMode())
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `server_addr: ":9090"
llm:
  provider: openai
  model: gpt-4o-mini
  timeout_seconds: 30
generator:
  extraction: lenient
  strict_shape: true
presentation:
  checkbox_keying: item_text
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("STRATEGY_LLM_API_KEY", "sk-test")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, generator.ExtractLenient, cfg.ExtractMode())
	assert.True(t, cfg.Generator.StrictShape)
	assert.Equal(t, view.KeyByItemText, cfg.KeyMode())

	s := cfg.LLMSettings()
	assert.Equal(t, "gpt-4o-mini", s.Model)
	assert.Equal(t, "sk-test", s.APIKey)
}

func TestNewViperMissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "provider", mutate: func(c *Config) { c.LLM.Provider = "llama" }, want: "llm.provider"},
		{name: "deepseek base url", mutate: func(c *Config) { c.LLM.Provider = "deepseek" }, want: "base_url"},
		{name: "timeout", mutate: func(c *Config) { c.LLM.TimeoutSeconds = -1 }, want: "timeout_seconds"},
		{name: "extraction", mutate: func(c *Config) { c.Generator.Extraction = "greedy" }, want: "generator.extraction"},
		{name: "keying", mutate: func(c *Config) { c.Presentation.CheckboxKeying = "hash" }, want: "checkbox_keying"},
		{name: "sample ratio", mutate: func(c *Config) { c.Tracing.SampleRatio = 2 }, want: "sample_ratio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "content-strategy"), ConfigDir())
}
