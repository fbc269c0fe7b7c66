package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("update queue full")
	ErrReplyTimeout = errors.New("timed out waiting for reply")
)
