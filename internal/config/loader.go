package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "LIVESET_"

// Load reads, overrides from the environment, and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.ResolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults. Unknown keys are rejected.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: name, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		switch {
		case errors.As(err, &derr):
			perr.Line, perr.Column = derr.Position()
		case errors.As(err, &serr) && len(serr.Errors) > 0:
			perr.Line, perr.Column = serr.Errors[0].Position()
			perr.Message = "unknown key " + strings.Join(serr.Errors[0].Key(), ".")
		}
		return nil, perr
	}
	return cfg, nil
}

// ApplyEnv overrides settings from LIVESET_* variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "ACTIVE"); ok {
		c.Active = v
	}
	if v, ok := lookup(EnvPrefix + "DIFF"); ok {
		c.Diff = v
	}
	if v, ok := lookup(EnvPrefix + "DEBOUNCE_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{
				Path:    EnvPrefix + "DEBOUNCE_MS",
				Message: "must be an integer",
				Value:   v,
				Code:    ErrCodeOutOfRange,
			}
		}
		c.DebounceMS = n
	}
	return nil
}

// ResolvePaths makes relative source paths relative to dir.
func (c *Config) ResolvePaths(dir string) {
	for i := range c.Sources {
		p := c.Sources[i].Path
		if p != "" && !filepath.IsAbs(p) {
			c.Sources[i].Path = filepath.Join(dir, p)
		}
	}
}
