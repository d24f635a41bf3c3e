package domain

import "errors"

// Stable error classifications surfaced to callers. Handlers map these to
// HTTP status codes exactly once; internal detail is logged, never returned.
var (
	// ErrUnauthenticated means no credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredential means the presented credential failed validation
	// or has expired.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrForbidden means the caller lacks the required role or does not own
	// the target record.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the local record is absent.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnreachable means the copier service could not be reached
	// (network failure or timeout).
	ErrRemoteUnreachable = errors.New("copier service unreachable")

	// ErrRemoteRejected means the copier service declared an error for the
	// request.
	ErrRemoteRejected = errors.New("copier service rejected request")

	// ErrShapeMismatch means the copier returned a success payload in none
	// of the known envelope shapes.
	ErrShapeMismatch = errors.New("unrecognized copier response shape")

	// ErrValidation means the request violates a local schema rule.
	ErrValidation = errors.New("validation failed")

	// ErrScheduling means a recurring-job interval expression was invalid.
	ErrScheduling = errors.New("invalid schedule expression")
)
