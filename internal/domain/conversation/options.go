// Package conversation implements the session state machine.
package conversation

import "github.com/okian/fiesta/pkg/logger"

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithAdmins sets the fixed administrator set, by external id. There is no
// runtime admin management; the set is known at startup.
func WithAdmins(ids []string) Option {
	return func(m *Machine) {
		for _, id := range ids {
			if id != "" {
				m.admins[id] = true
			}
		}
	}
}

// WithLogger sets a custom logger for the machine.
func WithLogger(log logger.Logger) Option {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}
