// Package config loads the YAML run configuration and renders the system
// prompt from its template and questions file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	live "github.com/ayam04/game-rec-live"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Session SessionConfig `yaml:"session"`
	Prompt  PromptConfig  `yaml:"prompt"`
	Audio   AudioConfig   `yaml:"audio"`
	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
}

type SessionConfig struct {
	live.SessionConfig `yaml:",inline"`
	// Transcription turns on captions for both directions.
	Transcription bool `yaml:"transcription"`
}

type PromptConfig struct {
	TemplateFile  string `yaml:"template_file"`
	QuestionsFile string `yaml:"questions_file"`
}

type AudioConfig struct {
	FrameSize        int  `yaml:"frame_size"`
	InputSampleRate  int  `yaml:"input_sample_rate"`
	OutputSampleRate int  `yaml:"output_sample_rate"`
	OutputBufferMs   int  `yaml:"output_buffer_ms"`
	OutputQueueMs    int  `yaml:"output_queue_ms"`
	SuppressOverflow bool `yaml:"suppress_overflow"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type CatalogConfig struct {
	BaseURL    string `yaml:"base_url"`
	PageSize   int    `yaml:"page_size"`
	Limit      int    `yaml:"limit"`
	IntervalMs int    `yaml:"interval_ms"`
	OutFile    string `yaml:"out_file"`
	ChunkSize  int    `yaml:"chunk_size"`
	OutputDir  string `yaml:"output_dir"`
}

func Default() *Config {
	return &Config{
		Session: SessionConfig{
			SessionConfig: live.SessionConfig{
				Model:            "gemini-2.0-flash-live-001",
				ResponseModality: live.ModalityAudio,
				Voice:            "Kore",
				AffectiveDialog:  true,
			},
			Transcription: true,
		},
		Prompt: PromptConfig{
			TemplateFile:  "prompt.txt",
			QuestionsFile: "questions.json",
		},
		Audio: AudioConfig{
			FrameSize:        live.FrameSize,
			InputSampleRate:  live.InputSampleRate,
			OutputSampleRate: live.OutputSampleRate,
			OutputBufferMs:   100,
			OutputQueueMs:    5000,
			SuppressOverflow: true,
		},
		Log: LogConfig{
			File:       "cli/cli.log",
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 3,
		},
		Catalog: CatalogConfig{
			BaseURL:    "https://api.rawg.io/api",
			PageSize:   500,
			Limit:      100000,
			IntervalMs: 1000,
			OutFile:    "games/all.json",
			ChunkSize:  5000,
			OutputDir:  "games",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Session.Model == "" {
		errs = append(errs, errors.New("session.model is required"))
	}
	if c.Audio.FrameSize <= 0 {
		errs = append(errs, fmt.Errorf("audio.frame_size must be positive, got %d", c.Audio.FrameSize))
	}
	if c.Audio.InputSampleRate <= 0 || c.Audio.OutputSampleRate <= 0 {
		errs = append(errs, errors.New("audio sample rates must be positive"))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize))
	}
	if c.Catalog.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("catalog.chunk_size must be positive, got %d", c.Catalog.ChunkSize))
	}
	return errors.Join(errs...)
}

// Live returns the session configuration with instruction attached.
func (c *Config) Live(instruction string) live.SessionConfig {
	sc := c.Session.SessionConfig
	sc.SystemInstruction = instruction
	if c.Session.Transcription {
		sc.InputTranscription = true
		sc.OutputTranscription = true
	}
	return sc
}

func (c *Config) InputFormat() live.AudioFormat {
	return live.AudioFormat{SampleRate: c.Audio.InputSampleRate, Channels: live.Channels, BytesPerSample: live.BytesPerSample}
}

func (c *Config) OutputFormat() live.AudioFormat {
	return live.AudioFormat{SampleRate: c.Audio.OutputSampleRate, Channels: live.Channels, BytesPerSample: live.BytesPerSample}
}

func (c *CatalogConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}
