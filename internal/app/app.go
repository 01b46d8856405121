// Package app wires configured record files into a swappable live view and
// drives it from a line-oriented command loop.
package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/dshills/liveset/internal/config"
	"github.com/dshills/liveset/internal/filesource"
	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/observable"
	"github.com/dshills/liveset/internal/record"
	"github.com/dshills/liveset/internal/source"
)

// Application owns the sources, the container that presents one of them,
// and the view rendering the container.
//
// Every mutation happens on the goroutine running Run, or on the caller's
// goroutine when Execute is used directly.
type Application struct {
	opts    Options
	config  *config.Config
	logger  *logging.Logger
	out     io.Writer
	metrics *Metrics

	files   map[string]*filesource.Source
	views   map[string]source.Source[record.Record]
	owned   observable.Bag

	container *source.Container[record.Record]
	view      *View
	active    string

	running atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Config is used instead of loading ConfigPath when set.
	Config *config.Config

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Debug forces debug logging.
	Debug bool

	// Input supplies commands. Defaults to os.Stdin.
	Input io.Reader

	// Output receives command output. Defaults to os.Stdout.
	Output io.Writer

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{
		opts:    opts,
		out:     opts.Output,
		metrics: NewMetrics(),
		files:   make(map[string]*filesource.Source),
		views:   make(map[string]source.Source[record.Record]),
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// Active returns the name of the source being shown.
func (app *Application) Active() string {
	return app.active
}

// Names returns the configured source names in configuration order.
func (app *Application) Names() []string {
	return app.config.Names()
}

// View returns the view of the container.
func (app *Application) View() *View {
	return app.view
}

// Metrics returns the application metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Use makes the named source the one being shown. Observers of the
// container see the switch as an ordinary batch.
func (app *Application) Use(name string) error {
	view, ok := app.views[name]
	if !ok {
		return fmt.Errorf("%w: %q", config.ErrUnknownSource, name)
	}
	if name == app.active {
		return nil
	}

	app.container.SetSource(view)
	app.metrics.RecordSwap()
	app.logger.Info("showing %s", name)
	app.active = name
	return nil
}

// Reload re-reads the file behind the named source, or every file when name
// is empty.
func (app *Application) Reload(name string) error {
	if name == "" {
		var firstErr error
		for _, path := range app.paths() {
			if err := app.reloadFile(app.files[path]); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	sc, err := app.config.Source(name)
	if err != nil {
		return err
	}
	return app.reloadFile(app.files[sc.Path])
}

func (app *Application) reloadFile(fs *filesource.Source) error {
	start := time.Now()
	err := fs.Reload()
	app.metrics.RecordReload(time.Since(start), err)
	return err
}

// paths returns the watched file paths in a stable order.
func (app *Application) paths() []string {
	paths := make([]string, 0, len(app.files))
	for p := range app.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Shutdown releases every subscription and script. It is safe to call more
// than once.
func (app *Application) Shutdown() {
	if app.view != nil {
		app.view.Close()
		app.view = nil
	}
	if app.container != nil {
		app.container.Close()
	}
	app.owned.Cancel()
}
