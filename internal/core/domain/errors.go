package domain

import "errors"

var (
	// ErrNotAuthenticated is the one hard failure in the system: the caller
	// has no valid session and the web layer must redirect to login.
	ErrNotAuthenticated = errors.New("domain: not authenticated")

	// ErrNotFound indicates a record that does not exist locally.
	ErrNotFound = errors.New("domain: not found")
)
