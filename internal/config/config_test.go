package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennwright/inkwell/internal/config"
)

func loadClean(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadClean(t)

	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, config.DefaultGeminiModel, cfg.Model.Name)
	assert.Equal(t, 10, cfg.Assistant.MaxIterations)
	assert.Equal(t, 2048, cfg.Assistant.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Assistant.RephraseTemperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.Assistant.ReplaceTemperature, 1e-9)
	assert.InDelta(t, 0.8, cfg.Assistant.ContinueTemperature, 1e-9)
	assert.InDelta(t, 1.0, cfg.Assistant.DraftTemperature, 1e-9)
	assert.Equal(t, "http://localhost:3100/events", cfg.Telemetry.Endpoint)
	assert.Equal(t, 3100, cfg.Collector.Port)
	assert.Equal(t, "@midnight", cfg.Collector.RotateSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INKWELL_MODEL_PROVIDER", "anthropic")
	t.Setenv("INKWELL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, config.DefaultAnthropicModel, cfg.Model.Name)
	assert.Equal(t, "test-key", cfg.Model.APIKey)
}

func TestLoad_GlobalConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")

	dir := filepath.Join(home, ".inkwell")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "model:\n  provider: openai\n  name: custom-model\nassistant:\n  max_iterations: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "custom-model", cfg.Model.Name)
	assert.Equal(t, 5, cfg.Assistant.MaxIterations)
}

func TestDurationOrDefault(t *testing.T) {
	d, err := config.DurationOrDefault("90s", config.DefaultModelRequestTimeout)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = config.DurationOrDefault("", config.DefaultModelRequestTimeout)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, d)

	_, err = config.DurationOrDefault("bogus", config.DefaultModelRequestTimeout)
	assert.Error(t, err)

	_, err = config.DurationOrDefault("", "")
	assert.Error(t, err)
}
