package source

import (
	"github.com/dshills/liveset/internal/diff"
	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/observable"
)

// Option configures a source.
type Option[T any] func(*config[T])

// config contains configuration shared by the sources in this package.
type config[T any] struct {
	logger     *logging.Logger
	name       string
	collection []observable.Option[T]
}

func newConfig[T any](opts []Option[T]) config[T] {
	c := config[T]{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// componentLogger returns the configured logger tagged for a component.
func (c config[T]) componentLogger(component string) *logging.Logger {
	l := c.logger.WithComponent(component)
	if c.name != "" {
		l = l.WithField("name", c.name)
	}
	return l
}

// WithLogger sets the logger for the source and its collection.
func WithLogger[T any](l *logging.Logger) Option[T] {
	return func(c *config[T]) {
		if l == nil {
			return
		}
		c.logger = l
		c.collection = append(c.collection, observable.WithLogger[T](l))
	}
}

// WithName names the source in log output.
func WithName[T any](name string) Option[T] {
	return func(c *config[T]) {
		c.name = name
		c.collection = append(c.collection, observable.WithName[T](name))
	}
}

// WithChanged sets the payload comparison used to report Updates.
func WithChanged[T any](changed func(a, b T) bool) Option[T] {
	return func(c *config[T]) {
		c.collection = append(c.collection, observable.WithChanged(changed))
	}
}

// WithDiffOptions selects the diff backend.
func WithDiffOptions[T any](opts diff.Options) Option[T] {
	return func(c *config[T]) {
		c.collection = append(c.collection, observable.WithDiffOptions[T](opts))
	}
}
