package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Probe      ProbeConfig      `yaml:"probe"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Watch      WatchConfig      `yaml:"watch"`
	Summary    SummaryConfig    `yaml:"summary"`
}

type PathsConfig struct {
	Input     string `yaml:"input"`
	Stations  string `yaml:"stations"`
	Summaries string `yaml:"summaries"`
}

type TranscribeConfig struct {
	Backend     string `yaml:"backend"`      // fasterwhisper or whisper
	Model       string `yaml:"model"`        // faster-whisper model name or path
	ModelPath   string `yaml:"model_path"`   // whisper.cpp ggml model file
	Device      string `yaml:"device"`       // auto, cpu, cuda
	ComputeType string `yaml:"compute_type"` // int8, float16, ...
	Python      string `yaml:"python"`
	Threads     int    `yaml:"threads"`
	VAD         bool   `yaml:"vad"`
}

type ProbeConfig struct {
	WindowSeconds    int     `yaml:"window_seconds"`
	BadThreshold     float64 `yaml:"bad_threshold"`
	GoodThreshold    float64 `yaml:"good_threshold"`
	GoodBeamSize     int     `yaml:"good_beam_size"`
	FallbackBeamSize int     `yaml:"fallback_beam_size"`
}

type OutputConfig struct {
	// Timezone names the reference location used for the date embedded in
	// transcript filenames, so naming stays stable across deployment hosts.
	Timezone string `yaml:"timezone"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SummaryConfig struct {
	Enabled bool     `yaml:"enabled"`
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
	Docx    bool     `yaml:"docx"`
}

// Load reads a YAML config file, validates it and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Stations == "" {
		return fmt.Errorf("paths.stations is required")
	}
	if c.Transcribe.Backend == "" {
		c.Transcribe.Backend = "fasterwhisper"
	}
	if c.Transcribe.Backend != "fasterwhisper" && c.Transcribe.Backend != "whisper" {
		return fmt.Errorf("transcribe.backend must be fasterwhisper or whisper, got %q", c.Transcribe.Backend)
	}
	if c.Transcribe.Backend == "whisper" && c.Transcribe.ModelPath == "" {
		return fmt.Errorf("transcribe.model_path is required for the whisper backend")
	}

	if c.Transcribe.Model == "" {
		c.Transcribe.Model = "small"
	}
	if c.Transcribe.Device == "" {
		c.Transcribe.Device = "cpu"
	}
	if c.Transcribe.ComputeType == "" {
		c.Transcribe.ComputeType = "int8"
	}
	if c.Transcribe.Python == "" {
		c.Transcribe.Python = "python3"
	}
	if c.Transcribe.Threads == 0 {
		c.Transcribe.Threads = 4
	}

	if c.Probe.WindowSeconds == 0 {
		c.Probe.WindowSeconds = 20
	}
	if c.Probe.BadThreshold == 0 {
		c.Probe.BadThreshold = -1.0
	}
	if c.Probe.GoodThreshold == 0 {
		c.Probe.GoodThreshold = -0.5
	}
	if c.Probe.GoodBeamSize == 0 {
		c.Probe.GoodBeamSize = 1
	}
	if c.Probe.FallbackBeamSize == 0 {
		c.Probe.FallbackBeamSize = 5
	}

	if c.Output.Timezone == "" {
		c.Output.Timezone = "Europe/Amsterdam"
	}
	if c.Paths.Summaries == "" {
		c.Paths.Summaries = "summaries"
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gemini-2.5-flash"
	}

	return nil
}
