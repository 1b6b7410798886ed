package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/uniportal/thesis-portal/internal/api/metrics"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
	"github.com/uniportal/thesis-portal/internal/core/service"
)

const (
	loginPath = "/auth/login"

	// sessionContextKey is where the guard stashes the loaded session for
	// downstream handlers.
	sessionContextKey = "portal_session"
)

// RequireSession gates a route family on an authenticated session only.
// family labels the guard metrics.
func RequireSession(store ports.SessionStore, family string) echo.MiddlewareFunc {
	return guard(store, nil, family, nil)
}

// RequireRoles gates a route family on an authenticated session whose
// role set intersects the required roles. The policy decides what a
// mismatch looks like: service.RedirectPolicy sends the user silently to
// their own role home, service.DenyPolicy renders the explicit
// access-denied surface.
func RequireRoles(store ports.SessionStore, policy service.GuardPolicy, family string, roles ...domain.Role) echo.MiddlewareFunc {
	return guard(store, policy, family, roles)
}

func guard(store ports.SessionStore, policy service.GuardPolicy, family string, roles []domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := store.Load(c.Request())
			decision := service.EvaluateGuard(sess, roles, policy)

			switch decision.Outcome {
			case service.GuardAllow:
				metrics.GuardDecisionsTotal.WithLabelValues(metrics.OutcomeAllowed, family).Inc()
				c.Set(sessionContextKey, sess)
				return next(c)

			case service.GuardLoginRedirect:
				metrics.GuardDecisionsTotal.WithLabelValues(metrics.OutcomeLoginRedirect, family).Inc()
				return c.Redirect(http.StatusFound, LoginRedirectURL(c.Request().URL.RequestURI()))

			case service.GuardHomeRedirect:
				metrics.GuardDecisionsTotal.WithLabelValues(metrics.OutcomeHomeRedirect, family).Inc()
				return c.Redirect(http.StatusFound, decision.Location)

			default: // service.GuardDeny
				metrics.GuardDecisionsTotal.WithLabelValues(metrics.OutcomeDenied, family).Inc()
				return renderDenied(c, sess, roles)
			}
		}
	}
}

// LoginRedirectURL builds the login destination carrying the attempted
// path, so login can send the visitor back after success.
func LoginRedirectURL(attempted string) string {
	if attempted == "" || attempted == loginPath {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(attempted)
}

// deniedResponse is the explicit access-denied surface (policy variant B).
// It names the user's current role(s) and the requirement, and offers the
// two escapes the UI renders as buttons.
type deniedResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	CurrentRoles  string   `json:"current_roles"`
	RequiredRoles []string `json:"required_roles"`
	Actions       actions  `json:"actions"`
}

type actions struct {
	GoBack string `json:"go_back"`
	Logout string `json:"logout"`
}

func renderDenied(c echo.Context, sess domain.Session, required []domain.Role) error {
	names := make([]string, len(required))
	for i, r := range required {
		names[i] = string(r)
	}
	return c.JSON(http.StatusForbidden, deniedResponse{
		Error:         "Không có quyền truy cập",
		Message:       "Bạn không có quyền truy cập vào trang này. Vui lòng liên hệ quản trị viên để được cấp quyền.",
		CurrentRoles:  domain.RoleDisplayName(sess.Roles()),
		RequiredRoles: names,
		Actions: actions{
			GoBack: "history:back",
			Logout: "/auth/logout",
		},
	})
}

// SessionFromContext returns the session the guard loaded for this
// request. Only valid behind RequireSession/RequireRoles.
func SessionFromContext(c echo.Context) domain.Session {
	sess, _ := c.Get(sessionContextKey).(domain.Session)
	return sess
}
