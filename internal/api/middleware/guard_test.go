package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/service"
)

type stubStore struct {
	loadFn func(r *http.Request) domain.Session
}

func (s *stubStore) Load(r *http.Request) domain.Session { return s.loadFn(r) }
func (s *stubStore) Save(http.ResponseWriter, *http.Request, string, *domain.User) error {
	return nil
}
func (s *stubStore) Clear(http.ResponseWriter, *http.Request) error { return nil }

func fixedSession(sess domain.Session) *stubStore {
	return &stubStore{loadFn: func(*http.Request) domain.Session { return sess }}
}

func runGuard(t *testing.T, mw echo.MiddlewareFunc, target string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec, reached
}

func TestGuardUnauthenticatedRedirectsToLogin(t *testing.T) {
	mw := RequireSession(fixedSession(domain.Session{}), "profile")
	rec, reached := runGuard(t, mw, "/profile")

	if reached {
		t.Fatal("handler must not run without a session")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/auth/login?redirect=%2Fprofile" {
		t.Fatalf("location = %q, want login with attempted path", loc)
	}
}

func TestGuardCorruptedUserSlotRedirectsToLogin(t *testing.T) {
	// Token present, user slot unreadable: fail closed.
	mw := RequireRoles(fixedSession(domain.Session{Token: "tok"}),
		service.RedirectPolicy{}, "student", domain.RoleStudent)
	rec, reached := runGuard(t, mw, "/student/dashboard")

	if reached {
		t.Fatal("handler must not run with a corrupted session")
	}
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "/auth/login") {
		t.Fatalf("got %d %q, want login redirect", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuardWrongRoleRedirectsHome(t *testing.T) {
	sess := domain.Session{Token: "tok", User: &domain.User{ID: "u1", Roles: []string{"student"}}}
	mw := RequireRoles(fixedSession(sess), service.RedirectPolicy{}, "lecturer", domain.RoleLecturer)
	rec, reached := runGuard(t, mw, "/lecturer/dashboard")

	if reached {
		t.Fatal("student must not reach the lecturer dashboard")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/student/dashboard" {
		t.Fatalf("location = %q, want /student/dashboard", loc)
	}
}

func TestGuardEmptyRoleSetFallsBackToLogin(t *testing.T) {
	// Authenticated but no recognized role and no role home.
	sess := domain.Session{Token: "tok", User: &domain.User{ID: "u1", Roles: []string{}}}
	mw := RequireRoles(fixedSession(sess), service.RedirectPolicy{}, "admin", domain.RoleAdmin)
	rec, reached := runGuard(t, mw, "/admin")

	if reached {
		t.Fatal("roleless user must not reach the admin board")
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("location = %q, want /auth/login", loc)
	}
}

func TestGuardDenyPolicyRendersDenialSurface(t *testing.T) {
	sess := domain.Session{Token: "tok", User: &domain.User{ID: "u1", Roles: []string{"student"}}}
	mw := RequireRoles(fixedSession(sess), service.DenyPolicy{}, "admin_accounts", domain.RoleAdmin)
	rec, reached := runGuard(t, mw, "/admin/accounts")

	if reached {
		t.Fatal("student must not reach account management")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Sinh viên") {
		t.Fatalf("denial must name the current role, got %s", body)
	}
	if !strings.Contains(body, "admin") {
		t.Fatalf("denial must name the required role, got %s", body)
	}
	if !strings.Contains(body, "/auth/logout") {
		t.Fatalf("denial must offer the logout escape, got %s", body)
	}
}

func TestGuardAllowStashesSession(t *testing.T) {
	sess := domain.Session{Token: "tok", User: &domain.User{ID: "u1", Roles: []string{"admin"}}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRoles(fixedSession(sess), service.RedirectPolicy{}, "admin", domain.RoleAdmin)
	h := mw(func(c echo.Context) error {
		got := SessionFromContext(c)
		if got.User == nil || got.User.ID != "u1" {
			t.Fatalf("session not available downstream: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLoginRedirectURLEscapesAttemptedPath(t *testing.T) {
	got := LoginRedirectURL("/student/topics?page=2")
	if got != "/auth/login?redirect=%2Fstudent%2Ftopics%3Fpage%3D2" {
		t.Fatalf("got %q", got)
	}
	if LoginRedirectURL("") != "/auth/login" {
		t.Fatal("empty attempted path should yield bare login")
	}
	if LoginRedirectURL("/auth/login") != "/auth/login" {
		t.Fatal("login itself must not self-reference")
	}
}
