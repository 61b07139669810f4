package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Model     ModelConfig     `koanf:"model"`
	Assistant AssistantConfig `koanf:"assistant"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Collector CollectorConfig `koanf:"collector"`
}

type ServerConfig struct {
	LogLevel string `koanf:"log_level"`
}

type ModelConfig struct {
	Provider       string `koanf:"provider"`
	Name           string `koanf:"name"`
	APIKey         string `koanf:"api_key"`
	BaseURL        string `koanf:"base_url"`
	RequestTimeout string `koanf:"request_timeout"`
}

type AssistantConfig struct {
	MaxIterations        int     `koanf:"max_iterations"`
	MaxTokens            int     `koanf:"max_tokens"`
	RephraseTemperature  float64 `koanf:"rephrase_temperature"`
	ReplaceTemperature   float64 `koanf:"replace_temperature"`
	ContinueTemperature  float64 `koanf:"continue_temperature"`
	DraftTemperature     float64 `koanf:"draft_temperature"`
}

type TelemetryConfig struct {
	Endpoint string `koanf:"endpoint"`
	StateDir string `koanf:"state_dir"`
}

type CollectorConfig struct {
	Port           int    `koanf:"port"`
	Output         string `koanf:"output"`
	RotateSchedule string `koanf:"rotate_schedule"`
}

const (
	DefaultServerLogLevel = "info"

	DefaultModelProvider       = "gemini"
	DefaultGeminiModel         = "gemini-2.5-flash"
	DefaultOpenAIModel         = "gpt-4o-mini"
	DefaultAnthropicModel      = "claude-3-5-haiku-latest"
	DefaultModelRequestTimeout = "120s"

	DefaultAssistantMaxIterations = 10
	DefaultAssistantMaxTokens     = 2048
	DefaultRephraseTemperature    = 0.7
	DefaultReplaceTemperature     = 0.9
	DefaultContinueTemperature    = 0.8
	DefaultDraftTemperature       = 1.0

	DefaultTelemetryEndpoint = "http://localhost:3100/events"

	DefaultCollectorPort           = 3100
	DefaultCollectorOutput         = "events.jsonl"
	DefaultCollectorRotateSchedule = "@midnight"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.log_level":               DefaultServerLogLevel,
		"model.provider":                 DefaultModelProvider,
		"model.request_timeout":          DefaultModelRequestTimeout,
		"assistant.max_iterations":       DefaultAssistantMaxIterations,
		"assistant.max_tokens":           DefaultAssistantMaxTokens,
		"assistant.rephrase_temperature": DefaultRephraseTemperature,
		"assistant.replace_temperature":  DefaultReplaceTemperature,
		"assistant.continue_temperature": DefaultContinueTemperature,
		"assistant.draft_temperature":    DefaultDraftTemperature,
		"telemetry.endpoint":             DefaultTelemetryEndpoint,
		"telemetry.state_dir":            filepath.Join(os.Getenv("HOME"), ".inkwell"),
		"collector.port":                 DefaultCollectorPort,
		"collector.output":               DefaultCollectorOutput,
		"collector.rotate_schedule":      DefaultCollectorRotateSchedule,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".inkwell", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("INKWELL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "INKWELL_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Model.Name == "" {
		cfg.Model.Name = defaultModelFor(cfg.Model.Provider)
	}

	// Inject standard env vars if the key is not configured
	if cfg.Model.APIKey == "" {
		switch cfg.Model.Provider {
		case "gemini":
			cfg.Model.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			cfg.Model.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.Model.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	return &cfg, nil
}

func defaultModelFor(provider string) string {
	switch provider {
	case "openai":
		return DefaultOpenAIModel
	case "anthropic":
		return DefaultAnthropicModel
	default:
		return DefaultGeminiModel
	}
}
