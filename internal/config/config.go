// Package config holds all CareGuide configuration. Configuration is
// loaded once at startup and treated as read-only afterward; concurrent
// pipeline runs share nothing except this immutable config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all CareGuide configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Reasoning backend configuration
	LLM LLMConfig `yaml:"llm"`

	// Pipeline behavior
	Pipeline PipelineConfig `yaml:"pipeline"`

	// File locations
	Paths PathsConfig `yaml:"paths"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the reasoning backend.
type LLMConfig struct {
	Provider        string  `yaml:"provider"` // gemini (REST), genai (SDK)
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	Timeout         string  `yaml:"timeout"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// PipelineConfig configures orchestrator behavior.
type PipelineConfig struct {
	// Delay between per-activity assessment calls. The assessment loop
	// is intentionally sequential and throttled to respect the shared
	// call-rate budget on the reasoning backend.
	AssessmentInterval string `yaml:"assessment_interval"`

	// Maximum characters of the redacted record passed to the
	// summarization stage.
	SummaryInputLimit int `yaml:"summary_input_limit"`

	// Maximum guidelines included in the guideline-grounded
	// recommendation prompt.
	GuidelinePromptLimit int `yaml:"guideline_prompt_limit"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	GuidelinesFile string `yaml:"guidelines_file"`
	DataDir        string `yaml:"data_dir"`
	OutputDir      string `yaml:"output_dir"`
	DatabasePath   string `yaml:"database_path"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "CareGuide",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider:        "gemini",
			Model:           "gemini-flash-latest",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Timeout:         "120s",
			Temperature:     0.1,
			MaxOutputTokens: 16384,
		},

		Pipeline: PipelineConfig{
			AssessmentInterval:   "6s",
			SummaryInputLimit:    3000,
			GuidelinePromptLimit: 15,
		},

		Paths: PathsConfig{
			GuidelinesFile: "data/uspstf_guidelines.json",
			DataDir:        "data",
			OutputDir:      "output",
			DatabasePath:   "data/careguide.db",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist. Environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("CAREGUIDE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if provider := os.Getenv("CAREGUIDE_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
}

// AssessmentInterval parses the configured inter-assessment delay,
// defaulting to 6 seconds on a missing or malformed value.
func (c *Config) AssessmentInterval() time.Duration {
	d, err := time.ParseDuration(c.Pipeline.AssessmentInterval)
	if err != nil || d < 0 {
		return 6 * time.Second
	}
	return d
}

// LLMTimeout parses the configured request timeout, defaulting to two
// minutes.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
