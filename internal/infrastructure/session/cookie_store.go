// Package session provides the persisted-session backends. Both keep the
// same two named slots (the opaque bearer token and the serialized user
// record) behind ports.SessionStore, so guards, handlers and tests are
// indifferent to where the slots actually live.
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uniportal/thesis-portal/internal/core/domain"
)

const (
	// TokenCookie and UserCookie mirror the two browser-storage keys the
	// legacy SPA used.
	TokenCookie = "access_token"
	UserCookie  = "user"
)

// CookieStore persists the session directly in the browser: the token in
// one cookie, the base64-encoded JSON user record in another. State is
// per-browser and survives reloads; the server keeps nothing.
type CookieStore struct {
	secure bool
}

func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

// Load reads both slots. Malformed content in the user slot is treated as
// absent, never as an error: a half-broken session must fail closed at
// the guard, not crash the request.
func (s *CookieStore) Load(r *http.Request) domain.Session {
	sess := domain.Session{}
	if c, err := r.Cookie(TokenCookie); err == nil {
		sess.Token = c.Value
	}
	if c, err := r.Cookie(UserCookie); err == nil {
		sess.User = decodeUser(c.Value)
	}
	return sess
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, token string, user *domain.User) error {
	maxAge := cookieLifetime(token)

	http.SetCookie(w, s.cookie(TokenCookie, token, maxAge))

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(UserCookie, base64.RawURLEncoding.EncodeToString(raw), maxAge))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, s.cookie(TokenCookie, "", -1))
	http.SetCookie(w, s.cookie(UserCookie, "", -1))
	return nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// cookieLifetime aligns the cookie MaxAge with the token's exp claim when
// one can be read. The parse is deliberately unverified: the portal never
// validates tokens (the thesis API does), it only borrows the lifetime.
// Tokens without a readable exp get a session cookie (MaxAge 0).
func cookieLifetime(token string) int {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return 0
	}
	return int(ttl / time.Second)
}

// decodeUser deserializes the persisted user slot; nil on any defect.
func decodeUser(encoded string) *domain.User {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}
