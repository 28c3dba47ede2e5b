// Package config loads and validates the runtime configuration for a
// training run.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataPath      string  `yaml:"data_path"`
	TrainFrac     float64 `yaml:"train_frac"`
	ValidFrac     float64 `yaml:"valid_frac"`
	VocabSize     int     `yaml:"vocab_size"`
	MinFreq       int     `yaml:"min_freq"`
	Tokenizer     string  `yaml:"tokenizer"` // word | subword
	EmbedDim      int     `yaml:"embed_dim"`
	HiddenDim     int     `yaml:"hidden_dim"`
	NumLayers     int     `yaml:"num_layers"`
	Bidirectional bool    `yaml:"bidirectional"`
	Dropout       float32 `yaml:"dropout"`
	BatchSize     int     `yaml:"batch_size"`
	Epochs        int     `yaml:"epochs"`
	LR            float32 `yaml:"lr"`
	Optimizer     string  `yaml:"optimizer"` // sgd | adam
	Device        string  `yaml:"device"`    // auto | cpu | webgpu
	Seed          int64   `yaml:"seed"`
	RunlogPath    string  `yaml:"runlog_path"` // empty disables run history
}

// Overrides captures CLI-supplied values; zero values leave the config
// untouched.
type Overrides struct {
	DataPath  string
	Epochs    int
	BatchSize int
	LR        float32
	Device    string
	Seed      int64
}

// Default returns the configuration used when no YAML file is given.
func Default() *Config {
	return &Config{
		TrainFrac:     0.7,
		ValidFrac:     0.15,
		VocabSize:     25000,
		MinFreq:       1,
		Tokenizer:     "word",
		EmbedDim:      100,
		HiddenDim:     256,
		NumLayers:     2,
		Bidirectional: true,
		Dropout:       0.5,
		BatchSize:     64,
		Epochs:        5,
		LR:            0.001,
		Optimizer:     "adam",
		Device:        "auto",
		Seed:          1234,
	}
}

// Load reads a Config from YAML, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.LR > 0 {
		c.LR = o.LR
	}
	if o.Device != "" {
		c.Device = o.Device
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
}

// Validate checks the configuration for contradictions before a run
// starts.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("data_path is required")
	}
	if c.TrainFrac <= 0 || c.ValidFrac <= 0 || c.TrainFrac+c.ValidFrac >= 1 {
		return errors.Errorf("invalid split fractions train=%.2f valid=%.2f", c.TrainFrac, c.ValidFrac)
	}
	if c.VocabSize < 2 {
		return errors.Errorf("vocab_size must be at least 2, got %d", c.VocabSize)
	}
	switch c.Tokenizer {
	case "word", "subword":
	default:
		return errors.Errorf("unknown tokenizer %q (want word or subword)", c.Tokenizer)
	}
	if c.EmbedDim < 1 || c.HiddenDim < 1 || c.NumLayers < 1 {
		return errors.New("embed_dim, hidden_dim and num_layers must be positive")
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return errors.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	}
	if c.BatchSize < 1 {
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Epochs < 1 {
		return errors.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.LR <= 0 {
		return errors.Errorf("lr must be positive, got %v", c.LR)
	}
	switch c.Optimizer {
	case "sgd", "adam":
	default:
		return errors.Errorf("unknown optimizer %q (want sgd or adam)", c.Optimizer)
	}
	switch c.Device {
	case "auto", "cpu", "webgpu":
	default:
		return errors.Errorf("unknown device %q (want auto, cpu or webgpu)", c.Device)
	}
	return nil
}

// Dump renders the config as YAML, for logging and run history.
func (c *Config) Dump() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %+v", *c)
	}
	return string(out)
}
