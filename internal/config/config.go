// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SnapshotPath locates the durable roster snapshot file.
	SnapshotPath string `koanf:"snapshot_path"`

	// AdminIDs lists the external ids allowed to run the point-entry flow.
	// Fixed at startup; there is no runtime admin management.
	AdminIDs []string `koanf:"admin_ids"`

	// QueueSize bounds the in-memory inbound update queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the update deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// LeaderboardSize sets how many rows leaderboards display.
	LeaderboardSize int `koanf:"leaderboard_size"`

	// ReplyTimeoutMS bounds how long POST /updates waits for the dispatcher.
	ReplyTimeoutMS int `koanf:"reply_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9090",
		SnapshotPath:    "fiesta_data.json",
		QueueSize:       1024,
		DedupeSize:      50_000,
		LeaderboardSize: 10,
		ReplyTimeoutMS:  10_000,
	}
}
