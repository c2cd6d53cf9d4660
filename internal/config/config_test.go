package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{
					Input:    "data/recordings",
					Stations: "stations.csv",
				},
			},
			wantErr: false,
		},
		{
			name: "missing input dir",
			config: Config{
				Paths: PathsConfig{
					Stations: "stations.csv",
				},
			},
			wantErr: true,
		},
		{
			name: "missing stations file",
			config: Config{
				Paths: PathsConfig{
					Input: "data/recordings",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			config: Config{
				Paths: PathsConfig{
					Input:    "data/recordings",
					Stations: "stations.csv",
				},
				Transcribe: TranscribeConfig{
					Backend: "deepspeech",
				},
			},
			wantErr: true,
		},
		{
			name: "whisper backend without model path",
			config: Config{
				Paths: PathsConfig{
					Input:    "data/recordings",
					Stations: "stations.csv",
				},
				Transcribe: TranscribeConfig{
					Backend: "whisper",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Paths: PathsConfig{
			Input:    "data/recordings",
			Stations: "stations.csv",
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Transcribe.Backend != "fasterwhisper" {
		t.Errorf("Backend = %v, want fasterwhisper", cfg.Transcribe.Backend)
	}
	if cfg.Probe.WindowSeconds != 20 {
		t.Errorf("WindowSeconds = %v, want 20", cfg.Probe.WindowSeconds)
	}
	if cfg.Probe.BadThreshold != -1.0 {
		t.Errorf("BadThreshold = %v, want -1.0", cfg.Probe.BadThreshold)
	}
	if cfg.Probe.GoodBeamSize != 1 {
		t.Errorf("GoodBeamSize = %v, want 1", cfg.Probe.GoodBeamSize)
	}
	if cfg.Probe.FallbackBeamSize != 5 {
		t.Errorf("FallbackBeamSize = %v, want 5", cfg.Probe.FallbackBeamSize)
	}
	if cfg.Output.Timezone != "Europe/Amsterdam" {
		t.Errorf("Timezone = %v, want Europe/Amsterdam", cfg.Output.Timezone)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  input: "data/recordings"
  stations: "stations.csv"

transcribe:
  backend: "fasterwhisper"
  model: "small"
  device: "cpu"
  vad: false

probe:
  window_seconds: 30
  bad_threshold: -1.2

output:
  timezone: "Europe/Amsterdam"

logging:
  level: "info"
  format: "text"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test loading
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Input != "data/recordings" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "data/recordings")
	}

	if cfg.Probe.WindowSeconds != 30 {
		t.Errorf("WindowSeconds = %v, want 30", cfg.Probe.WindowSeconds)
	}

	if cfg.Probe.GoodThreshold != -0.5 {
		t.Errorf("GoodThreshold = %v, want default -0.5", cfg.Probe.GoodThreshold)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
