package response

import "errors"

// Submission failure kinds. Handlers map these to HTTP statuses; anything
// else surfaces as an internal error.
var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrAttemptLimit = errors.New("attempt limit exceeded")
	ErrThrottled    = errors.New("too many submissions")
	ErrNotFound     = errors.New("attempt not found")
)
