package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/liveset/internal/diff"
	"github.com/dshills/liveset/internal/logging"
)

const sample = `
log_level = "debug"
active = "indoor"
debounce_ms = 250
diff = "dmp"

[[sources]]
name = "cats"
path = "cats.yaml"
sort_by = "name"
descending = true

[[sources]]
name = "indoor"
path = "/data/cats.yaml"
sort_lua = "a.age < b.age"
filter_field = "indoor"
filter_value = "true"
`

func TestParse(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sample))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}

	want := &Config{
		LogLevel:   "debug",
		Active:     "indoor",
		DebounceMS: 250,
		Diff:       "dmp",
		Sources: []SourceConfig{
			{Name: "cats", Path: "cats.yaml", SortBy: "name", Descending: true},
			{Name: "indoor", Path: "/data/cats.yaml", SortLua: "a.age < b.age", FilterField: "indoor", FilterValue: "true"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	if cfg.Level() != logging.LevelDebug {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("Debounce() = %v", cfg.Debounce())
	}
	if cfg.DiffOptions().Algorithm != diff.AlgorithmDiffMatchPatch {
		t.Errorf("DiffOptions() = %+v", cfg.DiffOptions())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate error = %v", err)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("min.toml", []byte("[[sources]]\nname = \"a\"\npath = \"a.yaml\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.DebounceMS != DefaultDebounceMS {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	active, err := cfg.ActiveSource()
	if err != nil || active.Name != "a" {
		t.Errorf("ActiveSource() = %+v, %v", active, err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"syntax", "log_level = \"debug\"\nactive = \n", 2},
		{"unknown key", "log_level = \"debug\"\ncolour = \"red\"\n", 2},
		{"wrong type", "debounce_ms = \"fast\"\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.toml", []byte(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse error = %v, want *ParseError", err)
			}
			if perr.Path != "bad.toml" {
				t.Errorf("Path = %q", perr.Path)
			}
			if tt.wantLine > 0 && perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", perr.Line, tt.wantLine, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Sources = []SourceConfig{{Name: "a", Path: "a.yaml"}, {Name: "b", Path: "b.yaml"}}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level", ErrCodeInvalidEnum},
		{"negative debounce", func(c *Config) { c.DebounceMS = -1 }, "debounce_ms", ErrCodeOutOfRange},
		{"bad diff", func(c *Config) { c.Diff = "patience" }, "diff", ErrCodeInvalidEnum},
		{"no sources", func(c *Config) { c.Sources = nil }, "sources", ErrCodeRequiredMissing},
		{"missing name", func(c *Config) { c.Sources[0].Name = "" }, "sources[0].name", ErrCodeRequiredMissing},
		{"duplicate name", func(c *Config) { c.Sources[1].Name = "a" }, "sources[1].name", ErrCodeDuplicate},
		{"missing path", func(c *Config) { c.Sources[1].Path = "" }, "sources[1].path", ErrCodeRequiredMissing},
		{"two sorts", func(c *Config) {
			c.Sources[0].SortBy = "name"
			c.Sources[0].SortLua = "true"
		}, "sources[0].sort_lua", ErrCodeConflict},
		{"descending without sort", func(c *Config) { c.Sources[0].Descending = true }, "sources[0].descending", ErrCodeRequiredMissing},
		{"filter value only", func(c *Config) { c.Sources[0].FilterValue = "x" }, "sources[0].filter_value", ErrCodeRequiredMissing},
		{"unknown active", func(c *Config) { c.Active = "zzz" }, "active", ErrCodeUnknownReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate error = %v, want ErrInvalidConfig", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate error = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path || verr.Code != tt.code {
				t.Errorf("got %s (%s), want %s (%s)", verr.Path, verr.Code, tt.path, tt.code)
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config: Validate error = %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.DebounceMS = -5

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined errors, got %T", err)
	}
	if got := len(joined.Unwrap()); got != 3 {
		t.Errorf("got %d errors, want 3: %v", got, err)
	}
}

func TestSource(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"cats", "indoor"}, cfg.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	s, err := cfg.Source("cats")
	if err != nil {
		t.Fatalf("Source error = %v", err)
	}
	if !s.Sorted() || s.Filtered() {
		t.Errorf("cats: Sorted=%v Filtered=%v", s.Sorted(), s.Filtered())
	}

	if _, err := cfg.Source("dogs"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Source(dogs) error = %v, want ErrUnknownSource", err)
	}

	active, err := cfg.ActiveSource()
	if err != nil || active.Name != "indoor" {
		t.Errorf("ActiveSource() = %+v, %v", active, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LIVESET_LOG_LEVEL":   "warn",
		"LIVESET_ACTIVE":      "b",
		"LIVESET_DIFF":        "dmp",
		"LIVESET_DEBOUNCE_MS": "10",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv error = %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.Active != "b" || cfg.Diff != "dmp" || cfg.DebounceMS != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	env["LIVESET_DEBOUNCE_MS"] = "soon"
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ApplyEnv error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liveset.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIVESET_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env override", cfg.LogLevel)
	}
	if got, want := cfg.Sources[0].Path, filepath.Join(dir, "cats.yaml"); got != want {
		t.Errorf("relative path = %q, want %q", got, want)
	}
	if got := cfg.Sources[1].Path; got != "/data/cats.yaml" {
		t.Errorf("absolute path = %q, want unchanged", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file error = %v, want ErrFileNotFound", err)
	}

	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("log_level = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid config error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidationErrorCode_String(t *testing.T) {
	tests := []struct {
		code     ValidationErrorCode
		expected string
	}{
		{ErrCodeInvalidEnum, "invalid_enum"},
		{ErrCodeRequiredMissing, "required_missing"},
		{ErrCodeOutOfRange, "out_of_range"},
		{ErrCodeDuplicate, "duplicate"},
		{ErrCodeConflict, "conflict"},
		{ErrCodeUnknownReference, "unknown_reference"},
		{ValidationErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.code.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
