package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound = errors.New("participant not found")
	ErrSnapshot = errors.New("snapshot failed")
)
