package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/liveset/internal/diff"
	"github.com/dshills/liveset/internal/logging"
)

// Default values.
const (
	DefaultLogLevel   = "info"
	DefaultDebounceMS = 100
)

// Config is the liveset configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Active names the source shown at startup. Defaults to the first source.
	Active string `toml:"active"`

	// DebounceMS is the quiet period before a changed file is reloaded.
	DebounceMS int `toml:"debounce_ms"`

	// Diff selects the diff backend: "myers" or "dmp".
	Diff string `toml:"diff"`

	Sources []SourceConfig `toml:"sources"`
}

// SourceConfig describes one record file and how to present it.
type SourceConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`

	// SortBy sorts records by a field. Mutually exclusive with SortLua.
	SortBy     string `toml:"sort_by"`
	Descending bool   `toml:"descending"`

	// SortLua sorts records with a Lua comparison over a and b.
	SortLua string `toml:"sort_lua"`

	// FilterField and FilterValue keep only records whose field matches.
	FilterField string `toml:"filter_field"`
	FilterValue string `toml:"filter_value"`
}

// Sorted reports whether the source is presented in sorted order.
func (s SourceConfig) Sorted() bool {
	return s.SortBy != "" || s.SortLua != ""
}

// Filtered reports whether the source is filtered.
func (s SourceConfig) Filtered() bool {
	return s.FilterField != ""
}

// Default returns a configuration with defaults and no sources.
func Default() *Config {
	return &Config{
		LogLevel:   DefaultLogLevel,
		DebounceMS: DefaultDebounceMS,
		Diff:       "myers",
	}
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Debounce returns the debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// DiffOptions returns the diff options selected by Diff.
func (c *Config) DiffOptions() diff.Options {
	opts := diff.DefaultOptions()
	opts.Algorithm = diff.ParseAlgorithm(c.Diff)
	return opts
}

// Names returns the source names in configuration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// Source returns the named source configuration.
func (c *Config) Source(name string) (SourceConfig, error) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, nil
		}
	}
	return SourceConfig{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// ActiveSource returns the configuration of the startup source.
func (c *Config) ActiveSource() (SourceConfig, error) {
	if c.Active == "" {
		if len(c.Sources) == 0 {
			return SourceConfig{}, fmt.Errorf("%w: no sources configured", ErrUnknownSource)
		}
		return c.Sources[0], nil
	}
	return c.Source(c.Active)
}

// Validate checks the configuration. All problems are reported together;
// each one matches ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if !logging.ValidLevel(c.LogLevel) {
		add("log_level", "must be debug, info, warn or error", c.LogLevel, ErrCodeInvalidEnum)
	}
	if c.DebounceMS < 0 {
		add("debounce_ms", "must not be negative", c.DebounceMS, ErrCodeOutOfRange)
	}
	switch c.Diff {
	case "", "myers", "dmp", "diffmatchpatch":
	default:
		add("diff", "must be myers or dmp", c.Diff, ErrCodeInvalidEnum)
	}

	if len(c.Sources) == 0 {
		add("sources", "at least one source is required", nil, ErrCodeRequiredMissing)
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		prefix := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			add(prefix+".name", "is required", s.Name, ErrCodeRequiredMissing)
		} else if seen[s.Name] {
			add(prefix+".name", "is already used", s.Name, ErrCodeDuplicate)
		}
		seen[s.Name] = true

		if s.Path == "" {
			add(prefix+".path", "is required", s.Path, ErrCodeRequiredMissing)
		}
		if s.SortBy != "" && s.SortLua != "" {
			add(prefix+".sort_lua", "cannot be combined with sort_by", s.SortLua, ErrCodeConflict)
		}
		if s.Descending && s.SortBy == "" {
			add(prefix+".descending", "requires sort_by", s.Descending, ErrCodeRequiredMissing)
		}
		if s.FilterValue != "" && s.FilterField == "" {
			add(prefix+".filter_value", "requires filter_field", s.FilterValue, ErrCodeRequiredMissing)
		}
	}

	if c.Active != "" && !seen[c.Active] {
		add("active", "does not name a configured source", c.Active, ErrCodeUnknownReference)
	}

	return errors.Join(errs...)
}
