// Package service provides the core business service.
package service

import (
	"time"

	"github.com/okian/fiesta/internal/domain/quiz"
	"github.com/okian/fiesta/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSnapshotPath sets the durable snapshot file location. Empty means
// memory-only operation.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithAdminIDs sets the fixed set of administrator external ids.
func WithAdminIDs(ids []string) Option {
	return func(s *Service) {
		s.adminIDs = ids
	}
}

// WithCatalog replaces the default quiz catalog.
func WithCatalog(defs []quiz.Definition) Option {
	return func(s *Service) {
		s.catalog = defs
	}
}

// WithQueueSize sets the maximum size of the update queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the update deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDisplaySize sets how many rows leaderboards display.
func WithDisplaySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.displaySize = size
		}
	}
}

// WithReplyTimeout bounds how long Submit waits for the dispatcher.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.replyTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
