// Package filesource provides a record source backed by a YAML file.
package filesource

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/observable"
	"github.com/dshills/liveset/internal/record"
	"github.com/dshills/liveset/internal/source"
)

// DefaultDebounce is the quiet period before a change triggers a reload.
const DefaultDebounce = 100 * time.Millisecond

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithName names the source in log output.
func WithName(name string) Option {
	return func(s *Source) {
		s.name = name
	}
}

// WithDebounce sets the quiet period used by Watch.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// Stats contains file source statistics.
type Stats struct {
	Loads     int64
	Failures  int64
	LastError error
	Items     int
}

// Source serves the records of a YAML file.
//
// Reload is the only mutation and must run on the owner's writer goroutine.
// Watch never reloads by itself; it only signals that a reload is due.
type Source struct {
	path     string
	name     string
	manual   *source.Manual[record.Record]
	logger   *logging.Logger
	debounce time.Duration

	watching atomic.Bool
	loads    atomic.Int64
	failures atomic.Int64
	lastErr  error
}

// Open reads path and returns a source holding its records.
func Open(path string, opts ...Option) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s := &Source{
		path:     abs,
		logger:   logging.Nop(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = filepath.Base(abs)
	}
	s.logger = s.logger.WithComponent("filesource").WithField("name", s.name)

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	s.loads.Add(1)

	s.manual = source.NewManualFunc(records, record.Same,
		source.WithChanged(record.Changed),
		source.WithName[record.Record](s.name),
		source.WithLogger[record.Record](s.logger),
	)
	s.logger.Debug("opened %s, %d records", s.path, len(records))
	return s, nil
}

// Reload re-reads the file and replaces the snapshot. On error the previous
// snapshot is kept and the error is returned.
func (s *Source) Reload() error {
	records, err := s.read()
	if err != nil {
		s.failures.Add(1)
		s.lastErr = err
		s.logger.Warn("reload failed: %v", err)
		return err
	}
	s.loads.Add(1)
	s.manual.ReplaceItems(records)
	s.logger.Debug("reloaded, %d records", len(records))
	return nil
}

func (s *Source) read() ([]record.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LoadError{Path: s.path, Err: err}
	}
	records, err := record.Unmarshal(data)
	if err != nil {
		return nil, &LoadError{Path: s.path, Err: err}
	}
	return records, nil
}

// Items returns the current records.
func (s *Source) Items() []record.Record {
	return s.manual.Items()
}

// Changes returns the record change stream.
func (s *Source) Changes() observable.Stream[record.Record] {
	return s.manual.Changes()
}

// Path returns the absolute path of the file.
func (s *Source) Path() string {
	return s.path
}

// Name returns the name used in logs.
func (s *Source) Name() string {
	return s.name
}

// Stats returns load statistics.
func (s *Source) Stats() Stats {
	return Stats{
		Loads:     s.loads.Load(),
		Failures:  s.failures.Load(),
		LastError: s.lastErr,
		Items:     len(s.manual.Items()),
	}
}

var _ source.Source[record.Record] = (*Source)(nil)
