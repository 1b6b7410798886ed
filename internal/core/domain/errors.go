package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when the thesis API rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired marks a 401 from the thesis API on a path that is
	// not on the local-handling allow-list. The error handler reacts by
	// clearing the session and sending the browser back to login.
	ErrSessionExpired = errors.New("session expired")

	// ErrUpstreamUnauthorized marks a 401 on an allow-listed path
	// (topic-registration flows). Handled locally, never clears the session.
	ErrUpstreamUnauthorized = errors.New("upstream rejected request")

	// ErrNotFound maps upstream 404s.
	ErrNotFound = errors.New("not found")

	// ErrUserExists maps upstream 409s on account creation.
	ErrUserExists = errors.New("user already exists")

	// ErrUpstreamUnavailable wraps transport failures and 5xx answers from
	// the thesis API.
	ErrUpstreamUnavailable = errors.New("thesis API unavailable")
)
