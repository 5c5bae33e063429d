package dto

import (
	"errors"
	"fmt"
)

// Sentinel errors for the retrieval core. Controllers map these to HTTP
// statuses in the error middleware; services wrap them with context.
var (
	// ErrUnknownRole means the authenticated role tag is not in the
	// permission table. Surfaced as an authorization failure.
	ErrUnknownRole = errors.New("unknown role")

	// ErrRecordNotFound is a normal miss on a structured lookup.
	ErrRecordNotFound = errors.New("record not found")

	// ErrIndexUnavailable means the vector index could not be queried.
	// Fatal for the request, retryable on a later one.
	ErrIndexUnavailable = errors.New("document index unavailable")

	// ErrBackendTimeout / ErrBackendUnavailable cover the generation backend.
	ErrBackendTimeout     = errors.New("generation backend timeout")
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	ErrSessionNotFound = errors.New("session not found or access denied")
)

// ScopeDeniedError is returned when a caller asks for data outside their
// ScopeSet. It carries the offending scope so handlers can answer with a
// plain "no access" message instead of a crash.
type ScopeDeniedError struct {
	Scope string
}

func (e *ScopeDeniedError) Error() string {
	return fmt.Sprintf("scope %q is not accessible with your role", e.Scope)
}

func IsScopeDenied(err error) bool {
	var sd *ScopeDeniedError
	return errors.As(err, &sd)
}
