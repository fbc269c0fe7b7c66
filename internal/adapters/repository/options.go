// Package repository holds the participant roster and its durable snapshot.
package repository

import "github.com/okian/fiesta/pkg/logger"

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithGateway wires a snapshot gateway for write-through persistence.
func WithGateway(g Gateway) Option {
	return func(r *Roster) {
		r.gateway = g
	}
}

// WithSnapshot seeds the roster from a previously loaded snapshot.
func WithSnapshot(snap Snapshot) Option {
	return func(r *Roster) {
		r.seed(snap)
	}
}

// WithLogger sets the logger used for degraded-mode diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(r *Roster) {
		if log != nil {
			r.log = log
		}
	}
}
