package store

import "resolveit/internal/platform/logger"

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger replaces the store logger, which is also handed to the SQL tracer
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
