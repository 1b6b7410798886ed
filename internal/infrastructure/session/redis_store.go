package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uniportal/thesis-portal/internal/core/domain"
)

// SessionIDCookie carries the opaque session ID when the Redis backend is
// active; the two slots themselves live server-side.
const SessionIDCookie = "session_id"

const defaultSessionTTL = 24 * time.Hour

// RedisStore keeps the token and user slots in a Redis hash keyed by a
// random session ID, so a logout in one tab is visible to every tab on
// its next request.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

func NewRedisStore(client *redis.Client, ttl time.Duration, secure bool) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl, secure: secure}
}

func (s *RedisStore) Load(r *http.Request) domain.Session {
	c, err := r.Cookie(SessionIDCookie)
	if err != nil || c.Value == "" {
		return domain.Session{}
	}

	fields, err := s.client.HGetAll(r.Context(), s.key(c.Value)).Result()
	if err != nil || len(fields) == 0 {
		return domain.Session{}
	}

	sess := domain.Session{Token: fields["token"]}
	if raw, ok := fields["user"]; ok {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			sess.User = &u
		}
		// malformed user slot: token stays, user is absent, the guard
		// treats that as a corrupted session and fails closed
	}
	return sess
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, token string, user *domain.User) error {
	// Drop any previous server-side session before issuing a new ID.
	if old, err := r.Cookie(SessionIDCookie); err == nil && old.Value != "" {
		_ = s.client.Del(r.Context(), s.key(old.Value)).Err()
	}

	id, err := newSessionID()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	ctx := r.Context()
	key := s.key(id)
	if err := s.client.HSet(ctx, key, "token", token, "user", string(raw)).Err(); err != nil {
		return err
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return err
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl/time.Second)))
	return nil
}

func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(SessionIDCookie); err == nil && c.Value != "" {
		_ = s.client.Del(r.Context(), s.key(c.Value)).Err()
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *RedisStore) key(id string) string {
	return "session:" + id
}

func (s *RedisStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionIDCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
