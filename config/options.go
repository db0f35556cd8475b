package config

import (
	"time"

	"github.com/goliatone/go-args/logger"
)

// Option configures a Container at construction.
type Option[T any] func(c *Container[T])

func WithLoader[T any](factories ...ProviderBuilder[T]) Option[T] {
	return func(c *Container[T]) {
		c.WithProvider(factories...)
	}
}

func WithLogger[T any](l logger.Logger) Option[T] {
	return func(c *Container[T]) {
		c.WithLogger(l)
	}
}

func WithTimeout[T any](timeout time.Duration) Option[T] {
	return func(c *Container[T]) {
		c.WithTimeout(timeout)
	}
}

func WithStrictKeys[T any]() Option[T] {
	return func(c *Container[T]) {
		c.WithStrictKeys(true)
	}
}
