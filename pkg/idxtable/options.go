package idxtable

import (
	"github.com/go-logr/logr"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/pkg/errors"
)

// Config holds the settings shared by the range collections.
type Config struct {
	Logger logr.Logger
	// Domain is the declared domain name of a collection. When empty, the
	// domain of the first stored range is used.
	Domain string
}

type Option func(*Config)

func WithLogger(l logr.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithDomain(name string) Option {
	return func(c *Config) { c.Domain = name }
}

func NewConfig(opts ...Option) *Config {
	c := &Config{Logger: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckRange validates rng against the declared domain.
func CheckRange[T any](c *Config, rng interval.Range[T]) error {
	if rng.IsZero() {
		return errors.Wrap(interval.ErrNotRange, "zero range")
	}
	name := rng.Domain().Name()
	if c.Domain != "" && !interval.CompatibleNames(c.Domain, name) {
		return errors.Wrapf(interval.ErrTypeMismatch, "range %s in domain %s, collection domain %s", rng, name, c.Domain)
	}
	return nil
}

// Declare records the domain of rng when the collection has none yet.
func (c *Config) Declare(name string) {
	if c.Domain == "" {
		c.Domain = name
	}
}
