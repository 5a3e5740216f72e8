// Package config loads the countlesson settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/countlesson/internal/geometry"
	"github.com/comalice/countlesson/internal/lesson"
	"github.com/comalice/countlesson/internal/placement"
)

// Config holds all countlesson configuration.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Lesson    LessonConfig     `yaml:"lesson"`
	Placement placement.Config `yaml:"placement"`
	Timings   TimingsConfig    `yaml:"timings"`
	Narration NarrationConfig  `yaml:"narration"`

	// Seed fixes the random source when non-zero.
	Seed uint64 `yaml:"seed,omitempty"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
	File   string `yaml:"file,omitempty"`
}

// LessonConfig configures exercise generation.
type LessonConfig struct {
	Length           int                     `yaml:"length"`
	MaxOperand       int                     `yaml:"max_operand"`
	ExampleResamples int                     `yaml:"example_resamples"`
	Obstacles        []geometry.ObstacleSpec `yaml:"obstacles"`
}

// TimingsConfig holds animation durations as Go duration strings.
type TimingsConfig struct {
	Between   string `yaml:"between"`
	Pulse     string `yaml:"pulse"`
	NextDelay string `yaml:"next_delay"`
}

// NarrationConfig configures the subtitle narrator.
type NarrationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	WordsPerMinute int    `yaml:"words_per_minute"`
	MinHold        string `yaml:"min_hold"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	lc := lesson.DefaultConfig()
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Lesson: LessonConfig{
			Length:           lc.Length,
			MaxOperand:       lc.MaxOperand,
			ExampleResamples: lc.ExampleResamples,
			Obstacles:        lc.Obstacles,
		},
		Placement: lc.Placement,
		Timings: TimingsConfig{
			Between:   lc.Between.String(),
			Pulse:     lc.Pulse.String(),
			NextDelay: lc.NextDelay.String(),
		},
		Narration: NarrationConfig{
			Enabled:        true,
			WordsPerMinute: 160,
			MinHold:        "600ms",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
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
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("COUNTLESSON_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("COUNTLESSON_NARRATION"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Narration.Enabled = enabled
		}
	}
	if v := os.Getenv("COUNTLESSON_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
}

// Validate checks value ranges and duration syntax.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	if c.Lesson.Length < 1 {
		return fmt.Errorf("lesson.length must be >= 1")
	}
	if c.Lesson.MaxOperand < 1 {
		return fmt.Errorf("lesson.max_operand must be >= 1")
	}
	if c.Lesson.ExampleResamples < 0 {
		return fmt.Errorf("lesson.example_resamples must be >= 0")
	}
	if c.Placement.Diameter <= 0 {
		return fmt.Errorf("placement.diameter must be > 0")
	}
	if c.Placement.MinGap < 0 || c.Placement.Padding < 0 {
		return fmt.Errorf("placement gap and padding must be >= 0")
	}
	if c.Placement.GroupTrials < 1 || c.Placement.ExtraTrials < 1 {
		return fmt.Errorf("placement trials must be >= 1")
	}
	for name, s := range map[string]string{
		"timings.between":    c.Timings.Between,
		"timings.pulse":      c.Timings.Pulse,
		"timings.next_delay": c.Timings.NextDelay,
		"narration.min_hold": c.Narration.MinHold,
	} {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Narration.WordsPerMinute < 1 {
		return fmt.Errorf("narration.words_per_minute must be >= 1")
	}
	return nil
}

// GetBetween returns the pause after each counted token.
func (c *Config) GetBetween() time.Duration {
	return parseDuration(c.Timings.Between, 180*time.Millisecond)
}

// GetPulse returns the duration of a silent pulse.
func (c *Config) GetPulse() time.Duration {
	return parseDuration(c.Timings.Pulse, 900*time.Millisecond)
}

// GetNextDelay returns the pause before advancing after a correct answer.
func (c *Config) GetNextDelay() time.Duration {
	return parseDuration(c.Timings.NextDelay, 800*time.Millisecond)
}

// GetMinHold returns the shortest time a subtitle stays on screen.
func (c *Config) GetMinHold() time.Duration {
	return parseDuration(c.Narration.MinHold, 600*time.Millisecond)
}

// ToLesson converts the file settings into lesson settings.
func (c *Config) ToLesson() lesson.Config {
	return lesson.Config{
		Length:           c.Lesson.Length,
		MaxOperand:       c.Lesson.MaxOperand,
		ExampleResamples: c.Lesson.ExampleResamples,
		Placement:        c.Placement,
		Obstacles:        append([]geometry.ObstacleSpec(nil), c.Lesson.Obstacles...),
		Between:          c.GetBetween(),
		Pulse:            c.GetPulse(),
		NextDelay:        c.GetNextDelay(),
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
