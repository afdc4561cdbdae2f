package errors

import "errors"

// Application-wide sentinel errors. Services wrap them with context via
// fmt.Errorf("...: %w", err); handlers map them to HTTP statuses with errors.Is.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned on authentication failures (missing or invalid token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the authenticated user lacks the required role
	// (admin-only operations, vip-only contests).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input (bad submission shape, duplicate
	// question references and the like).
	ErrValidation = errors.New("validation failed")

	// ErrContestNotActive is returned when a submission arrives outside the
	// contest's [start, end] window.
	ErrContestNotActive = errors.New("contest is not active")

	// ErrAlreadySubmitted is returned when a leaderboard entry already exists for
	// the (user, contest) pair. The unique index in the store is the authoritative
	// guard; its 23505 rejection is mapped to this error.
	ErrAlreadySubmitted = errors.New("answers already submitted for this contest")

	// ErrInvalidQuestionReference is returned when a submission references a
	// question that is not part of the contest. The whole submission fails.
	ErrInvalidQuestionReference = errors.New("submission references unknown question")

	// ErrStoreUnavailable is returned when the durable store cannot serve a read
	// or write. During rank recomputation it is reported per contest.
	ErrStoreUnavailable = errors.New("storage unavailable")
)
