package observable

import (
	"github.com/dshills/liveset/internal/diff"
	"github.com/dshills/liveset/internal/logging"
)

// Option configures a Collection.
type Option[T any] func(*collectionConfig[T])

// collectionConfig contains configuration for a collection.
type collectionConfig[T any] struct {
	// changed reports payload changes between identity-equal items.
	changed func(a, b T) bool

	// diffOptions selects the diff backend.
	diffOptions diff.Options

	// logger receives debug output about replacements.
	logger *logging.Logger

	// name identifies the collection in logs.
	name string
}

func defaultCollectionConfig[T any]() collectionConfig[T] {
	return collectionConfig[T]{
		diffOptions: diff.DefaultOptions(),
		logger:      logging.Nop(),
	}
}

// WithChanged sets the payload comparison. Identity-equal items for which
// changed returns true are reported as Updates.
func WithChanged[T any](changed func(a, b T) bool) Option[T] {
	return func(c *collectionConfig[T]) {
		c.changed = changed
	}
}

// WithDiffOptions sets the diff options used by Replace.
func WithDiffOptions[T any](opts diff.Options) Option[T] {
	return func(c *collectionConfig[T]) {
		c.diffOptions = opts
	}
}

// WithLogger sets the logger.
func WithLogger[T any](l *logging.Logger) Option[T] {
	return func(c *collectionConfig[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithName sets the name used in log output.
func WithName[T any](name string) Option[T] {
	return func(c *collectionConfig[T]) {
		c.name = name
	}
}
