package lifecycle

import "errors"

// Every mutating operation returns either the updated record or exactly
// one of these kinds, matched with errors.Is.
var (
	// ErrInvalidTransition means the record's current status is not an
	// eligible predecessor for the requested operation.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyClaimed means another staff member won the claim race.
	// First writer wins; callers decide whether to retry elsewhere.
	ErrAlreadyClaimed = errors.New("already claimed by another staff member")

	// ErrNotAuthorized means the actor is not the claim holder.
	ErrNotAuthorized = errors.New("actor does not hold the claim")

	// ErrTableUnavailable means the table's occupancy precondition failed.
	ErrTableUnavailable = errors.New("table unavailable")

	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps infrastructure faults from the store.
	// Not recovered locally; callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidInput rejects malformed intents before any write.
	ErrInvalidInput = errors.New("invalid input")
)
