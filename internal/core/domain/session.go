package domain

// Session is the persisted authenticated-identity artifact: an opaque
// bearer token plus the cached user record. Either field may be absent.
type Session struct {
	Token string
	User  *User
}

// IsAuthenticated is true iff a non-empty token is present. The portal
// never inspects the token for expiry or signature; the thesis API is
// the authority and answers 401 when the token has gone bad.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Roles returns the session user's raw role set; empty when the user
// record is absent or carries no roles.
func (s Session) Roles() []string {
	return s.User.RoleStrings()
}
