package shared

import "errors"

var (
	// ErrNoCredential indicates no token is stored for the session.
	ErrNoCredential = errors.New("no credential")
	// ErrInvalidCredentials indicates login or identity resolution was rejected upstream.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTransientLookup indicates a network or server failure distinct from a definitive answer.
	ErrTransientLookup = errors.New("transient lookup failure")
	// ErrProfileNotFound indicates the upstream definitively reported no profile for the principal.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSuperseded indicates a navigation outcome was discarded because a newer navigation started.
	ErrSuperseded = errors.New("navigation superseded")
)
