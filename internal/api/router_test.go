package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
	"github.com/uniportal/thesis-portal/internal/infrastructure/session"
	"github.com/uniportal/thesis-portal/internal/ws"
)

// stubThesis satisfies every upstream port with canned answers.
type stubThesis struct{}

func (stubThesis) Login(context.Context, ports.LoginInput) (string, *domain.User, error) {
	return "tok", &domain.User{ID: "u1", Roles: []string{"student"}}, nil
}
func (stubThesis) Logout(context.Context, string) error { return nil }
func (stubThesis) Profile(context.Context, string) (*domain.User, error) {
	return &domain.User{ID: "u1", Roles: []string{"student"}}, nil
}
func (stubThesis) AvailableTopics(context.Context, string, ports.TopicSearch) (*ports.TopicPage, error) {
	return &ports.TopicPage{Page: 1, Limit: 10}, nil
}
func (stubThesis) ProposedTopics(context.Context, string) ([]domain.Topic, error) { return nil, nil }
func (stubThesis) ProposeTopic(context.Context, string, ports.ProposeTopicInput) (*domain.Topic, error) {
	return &domain.Topic{}, nil
}
func (stubThesis) RegisterTopic(context.Context, string, ports.RegisterTopicInput) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubThesis) MyRegistrations(context.Context, string) ([]domain.Registration, error) {
	return nil, nil
}
func (stubThesis) StudentRegistrations(context.Context, string) ([]domain.RegistrationDetail, error) {
	return nil, nil
}
func (stubThesis) ApproveRegistration(context.Context, string, ports.ApproveRegistrationInput) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubThesis) Reports(context.Context, string) ([]domain.Report, error) { return nil, nil }
func (stubThesis) SubmitReport(context.Context, string, ports.SubmitReportInput) (*domain.Report, error) {
	return &domain.Report{}, nil
}
func (stubThesis) ListAccounts(context.Context, string) ([]domain.User, error) { return nil, nil }
func (stubThesis) CreateAccount(context.Context, string, ports.CreateAccountInput) (*domain.User, error) {
	return &domain.User{}, nil
}
func (stubThesis) UpdateRoles(context.Context, string, string, []string) (*domain.User, error) {
	return &domain.User{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	// NewRouter registers collectors with the prometheus default registry;
	// give each test a fresh one so repeated calls do not collide.
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	api := stubThesis{}
	limiter := middleware.NewRateLimiter(600, 100)
	t.Cleanup(limiter.Stop)

	return NewRouter(RouterDeps{
		Store:        session.NewCookieStore(false),
		Auth:         api,
		Topics:       api,
		Reports:      api,
		Accounts:     api,
		Hub:          ws.NewHub(zerolog.Nop()),
		LoginLimiter: limiter,
		Log:          zerolog.Nop(),
	})
}

func sessionCookies(t *testing.T, roles ...string) []*http.Cookie {
	t.Helper()
	raw, err := json.Marshal(&domain.User{ID: "u1", Roles: roles})
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	return []*http.Cookie{
		{Name: session.TokenCookie, Value: "tok"},
		{Name: session.UserCookie, Value: base64.RawURLEncoding.EncodeToString(raw)},
	}
}

func doRequest(t *testing.T, h http.Handler, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterUnauthenticatedPageRedirectsToLogin(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/profile", nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/auth/login?redirect=") {
		t.Fatalf("location = %q", loc)
	}
}

func TestRouterStudentBouncedFromLecturerPages(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/lecturer/dashboard", sessionCookies(t, "student"))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/student/dashboard" {
		t.Fatalf("location = %q, want /student/dashboard", loc)
	}
}

func TestRouterAdminEntersLecturerPages(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/lecturer/dashboard", sessionCookies(t, "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRolelessUserAtAdminGoesToLogin(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/admin", sessionCookies(t))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("location = %q, want /auth/login", loc)
	}
}

func TestRouterAccountManagementDeniesExplicitly(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/admin/accounts", sessionCookies(t, "student"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sinh viên") {
		t.Fatalf("body = %s, want current role named", rec.Body.String())
	}
}

func TestRouterDashboardDispatches(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/dashboard", sessionCookies(t, "lecturer"))

	if loc := rec.Header().Get("Location"); loc != "/lecturer/dashboard" {
		t.Fatalf("location = %q, want /lecturer/dashboard", loc)
	}
}

func TestRouterNavigationForStudent(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/api/navigation", sessionCookies(t, "student"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Đăng ký đề tài") {
		t.Fatalf("body = %s, want student menu entries", rec.Body.String())
	}
}

// The login redirect target must resolve inside this service.
func TestRouterLoginRedirectTargetResolves(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/profile", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	target := rec.Header().Get("Location")
	rec = doRequest(t, h, http.MethodGet, target, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", target, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/profile"`) {
		t.Fatalf("body = %s, want attempted path echoed", rec.Body.String())
	}
}

func TestRouterHealthProbes(t *testing.T) {
	h := newTestRouter(t)
	if rec := doRequest(t, h, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("liveness = %d", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodGet, "/health/ready", nil); rec.Code != http.StatusOK {
		t.Fatalf("readiness = %d", rec.Code)
	}
}
