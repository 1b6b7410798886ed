package domain

// User is the identity snapshot cached alongside the session. It is
// whatever the thesis API returned at login and stays as-is until the
// next login or profile refresh; the portal never mutates it.
type User struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Username      string   `json:"username,omitempty"`
	FullName      string   `json:"fullName,omitempty"`
	FirstName     string   `json:"firstName,omitempty"`
	LastName      string   `json:"lastName,omitempty"`
	Roles         []string `json:"roles"`
	EmailVerified bool     `json:"emailVerified,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	LastLogin     string   `json:"lastLogin,omitempty"`
}

// DisplayName picks the first non-empty of: full name, first+last, email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

// RoleStrings returns the raw role set, nil-safe. A user record with a
// missing roles field behaves as an empty set, never as an error.
func (u *User) RoleStrings() []string {
	if u == nil {
		return nil
	}
	return u.Roles
}
