package identity

import "errors"

// Sentinel kinds for identity errors.
var (
	ErrValidation = errors.New("invalid display name")
)
