package app

import (
	"github.com/dshills/liveset/internal/config"
	"github.com/dshills/liveset/internal/filesource"
	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/record"
	"github.com/dshills/liveset/internal/script"
	"github.com/dshills/liveset/internal/source"
)

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		loaded, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	level := cfg.Level()
	if app.opts.LogLevel != "" {
		level = logging.ParseLevel(app.opts.LogLevel)
	}
	if app.opts.Debug {
		level = logging.LevelDebug
	}
	app.logger = logging.New(logging.Config{
		Level:  level,
		Output: app.opts.LogOutput,
		Prefix: "liveset",
	})

	// 3. Files and their projections
	for _, sc := range cfg.Sources {
		fs, err := app.openFile(sc.Path)
		if err != nil {
			return &InitError{Component: "source " + sc.Name, Err: err}
		}
		view, err := app.project(sc, fs)
		if err != nil {
			return &InitError{Component: "source " + sc.Name, Err: err}
		}
		app.views[sc.Name] = view
	}

	// 4. Container and view
	active, err := cfg.ActiveSource()
	if err != nil {
		return &InitError{Component: "container", Err: err}
	}
	app.container = source.NewContainerFunc(app.views[active.Name], record.Same, app.sourceOptions("container")...)
	app.active = active.Name
	app.view = NewView(app.container, app.out)

	app.logger.Info("loaded %d sources, showing %s", len(cfg.Sources), active.Name)
	return nil
}

// openFile opens path once no matter how many sources read it.
func (app *Application) openFile(path string) (*filesource.Source, error) {
	if fs, ok := app.files[path]; ok {
		return fs, nil
	}
	fs, err := filesource.Open(path,
		filesource.WithLogger(app.logger),
		filesource.WithDebounce(app.config.Debounce()),
	)
	if err != nil {
		return nil, err
	}
	app.files[path] = fs
	return fs, nil
}

// project stacks the configured filter and sort order on top of fs.
func (app *Application) project(sc config.SourceConfig, fs *filesource.Source) (source.Source[record.Record], error) {
	var src source.Source[record.Record] = fs
	opts := app.sourceOptions(sc.Name)

	if sc.Filtered() {
		filtered := source.NewFilteredFunc(src, record.Matching(sc.FilterField, sc.FilterValue), record.Same, opts...)
		app.owned.AddFunc(filtered.Close)
		src = filtered
	}

	var before func(a, b record.Record) bool
	switch {
	case sc.SortLua != "":
		s, err := script.Compile(sc.SortLua, script.WithLogger(app.logger.WithField("name", sc.Name)))
		if err != nil {
			return nil, err
		}
		app.owned.AddFunc(s.Close)
		before = s.Before
	case sc.SortBy != "":
		before = record.ByField(sc.SortBy, sc.Descending)
	}

	if before != nil {
		sorted := source.NewSortedFunc(src, before, record.Same, opts...)
		app.owned.AddFunc(sorted.Close)
		src = sorted
	}
	return src, nil
}

func (app *Application) sourceOptions(name string) []source.Option[record.Record] {
	return []source.Option[record.Record]{
		source.WithName[record.Record](name),
		source.WithLogger[record.Record](app.logger),
		source.WithChanged(record.Changed),
		source.WithDiffOptions[record.Record](app.config.DiffOptions()),
	}
}
