package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/atlas-foundry/scene-go-sdk/llm"
)

// DefaultConfigPath is read when -config is not given; a missing file is not an error.
const DefaultConfigPath = "scenegen.toml"

// Config holds CLI settings loaded from TOML and overridden by the environment.
type Config struct {
	Model   string `toml:"model"`
	// BaseURL is an OpenAI-compatible API root, e.g. http://localhost:8080/v1.
	BaseURL string `toml:"base_url"`
	Title   string `toml:"title"`
	Notes   string `toml:"notes"`
	Output  string `toml:"output"`
	Emit    string `toml:"emit"`
	Strict  bool   `toml:"strict"`

	// APIKey only comes from OPENAI_API_KEY, never from the file.
	APIKey string `toml:"-"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Model: llm.DefaultModel,
		Title: "Generated Scene",
		Emit:  "html",
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields the
// defaults; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return cfg, fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv("SCENEGEN_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("SCENEGEN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}
