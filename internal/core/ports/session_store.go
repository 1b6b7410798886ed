package ports

import (
	"net/http"

	"github.com/uniportal/thesis-portal/internal/core/domain"
)

// SessionStore owns the two persisted session slots (bearer token +
// serialized user record). Guards and the role redirector only call Load;
// Save and Clear belong to the login, logout and profile-refresh flows.
type SessionStore interface {
	// Load reads the session for the request. It never fails: a missing
	// slot or a malformed user record simply yields an absent field.
	Load(r *http.Request) domain.Session

	// Save persists both slots. Subsequent Loads on requests carrying the
	// issued cookies reflect them.
	Save(w http.ResponseWriter, r *http.Request, token string, user *domain.User) error

	// Clear removes both slots; subsequent Loads return an empty session.
	Clear(w http.ResponseWriter, r *http.Request) error
}
