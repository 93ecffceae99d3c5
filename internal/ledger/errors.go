package ledger

import "errors"

// Expected, recoverable failure conditions. Every operation either succeeds
// fully or returns one of these (or a wrapped storage error) with no partial
// mutation applied.
var (
	ErrHabitNotFound         = errors.New("habit not found")
	ErrAlreadyCompletedToday = errors.New("habit already completed today")
	ErrNoCompletionToday     = errors.New("no completion recorded for today")
	ErrInsufficientCredits   = errors.New("not enough credits to skip")
)
