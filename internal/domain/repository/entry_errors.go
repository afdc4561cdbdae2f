package repository

import "errors"

var (
	// ErrDuplicateEntry means a leaderboard entry already exists for the
	// (user, contest) pair. Raised from the store's unique-index rejection,
	// never from an application-level read-then-write.
	ErrDuplicateEntry = errors.New("leaderboard entry already exists for user and contest")
)
