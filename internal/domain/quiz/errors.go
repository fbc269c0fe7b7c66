package quiz

import "errors"

// Sentinel kinds for quiz errors.
var (
	ErrUnknownQuiz = errors.New("unknown quiz")
	ErrBadProgress = errors.New("quiz progress out of range")
)
