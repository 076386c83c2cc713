package trade

import "errors"

// Failure categories returned by the engine. Callers match with errors.Is;
// the API layer maps each to an HTTP status.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks rights over the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the entity's current state disallows the operation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument means the input itself is malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)
