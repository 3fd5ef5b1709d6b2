// Package config holds the embedder-tunable runtime configuration,
// loaded from an optional pellet.yaml next to the embedding application.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Verbosity selects how much detail call-time errors carry. It changes the
// message, never which condition fires.
type Verbosity string

const (
	// VerbosityTerse produces one generic message for all argument errors.
	VerbosityTerse Verbosity = "terse"
	// VerbosityNormal includes expected/given counts and argument names.
	VerbosityNormal Verbosity = "normal"
	// VerbosityDetailed additionally includes the callable's name.
	VerbosityDetailed Verbosity = "detailed"
)

// DefaultMaxFrameWords is the state size, in machine words, below which a
// call frame is placed in the pooled fast path instead of the heap. A
// tuning knob, not a correctness boundary.
const DefaultMaxFrameWords = 10

// Config is the top-level pellet.yaml configuration.
type Config struct {
	// Diagnostics selects call-error verbosity: terse, normal or detailed.
	Diagnostics Verbosity `yaml:"diagnostics"`

	// MaxFrameWords is the pooled-frame size threshold in machine words.
	MaxFrameWords int `yaml:"max_frame_words"`
}

// Default returns the configuration used when no pellet.yaml is present.
func Default() *Config {
	return &Config{
		Diagnostics:   VerbosityNormal,
		MaxFrameWords: DefaultMaxFrameWords,
	}
}

// Load reads and validates a yaml config file, applying defaults for
// omitted keys. An explicit max_frame_words of 0 is legal (every frame
// goes to the heap), so presence is told apart from omission.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw struct {
		Diagnostics   *Verbosity `yaml:"diagnostics"`
		MaxFrameWords *int       `yaml:"max_frame_words"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg := Default()
	if raw.Diagnostics != nil {
		cfg.Diagnostics = *raw.Diagnostics
	}
	if raw.MaxFrameWords != nil {
		cfg.MaxFrameWords = *raw.MaxFrameWords
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values without mutating them.
func (c *Config) Validate() error {
	switch c.Diagnostics {
	case VerbosityTerse, VerbosityNormal, VerbosityDetailed:
	default:
		return fmt.Errorf("diagnostics must be terse, normal or detailed, got %q", c.Diagnostics)
	}
	if c.MaxFrameWords < 0 {
		return fmt.Errorf("max_frame_words must not be negative, got %d", c.MaxFrameWords)
	}
	return nil
}
