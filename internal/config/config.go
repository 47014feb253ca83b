package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Mode selects how the driver feeds the value to the accumulator.
type Mode string

const (
	// ModeReread passes a pointer into the sequence; the faithful demonstration.
	ModeReread Mode = "reread"
	// ModeIndex passes an index into the sequence and reads it every step.
	ModeIndex Mode = "index"
	// ModeCached captures the value once before iterating.
	ModeCached Mode = "cached"
)

// MaxSequenceLength bounds the sequence the driver allocates.
const MaxSequenceLength = 1 << 20

// ValidModes lists all supported accumulation modes.
var ValidModes = []Mode{ModeReread, ModeIndex, ModeCached}

// Config holds all aliasdemo configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Sequence built by the driver
	Sequence SequenceConfig `yaml:"sequence"`

	// Accumulation mode
	Mode Mode `yaml:"mode"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SequenceConfig describes the sequence the driver builds and where the value aliases it.
type SequenceConfig struct {
	Length     int `yaml:"length"`
	Fill       int `yaml:"fill"`
	AliasIndex int `yaml:"alias_index"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "aliasdemo",
		Version: "1.0.0",

		Sequence: SequenceConfig{
			Length:     5,
			Fill:       2,
			AliasIndex: 0,
		},

		Mode: ModeReread,

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"ALIASDEMO_LENGTH", &c.Sequence.Length},
		{"ALIASDEMO_FILL", &c.Sequence.Fill},
		{"ALIASDEMO_ALIAS_INDEX", &c.Sequence.AliasIndex},
	}
	for _, o := range ints {
		raw := os.Getenv(o.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.key, raw, err)
		}
		*o.dst = n
	}

	if mode := os.Getenv("ALIASDEMO_MODE"); mode != "" {
		c.Mode = Mode(mode)
	}
	if level := os.Getenv("ALIASDEMO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Sequence.Length < 0 {
		return fmt.Errorf("sequence length must be non-negative, got %d", c.Sequence.Length)
	}
	if c.Sequence.Length > MaxSequenceLength {
		return fmt.Errorf("sequence length too large: %d (max %d)", c.Sequence.Length, MaxSequenceLength)
	}
	// The alias index is unused for an empty sequence.
	if c.Sequence.Length > 0 && (c.Sequence.AliasIndex < 0 || c.Sequence.AliasIndex >= c.Sequence.Length) {
		return fmt.Errorf("alias index %d out of range for sequence of length %d", c.Sequence.AliasIndex, c.Sequence.Length)
	}

	validMode := false
	for _, m := range ValidModes {
		if c.Mode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid mode: %s (valid: %v)", c.Mode, ValidModes)
	}

	return c.Logging.Validate()
}
