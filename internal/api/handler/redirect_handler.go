package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

// profileFallback is where authenticated users with no recognized role
// home land.
const profileFallback = "/profile"

// RedirectHandler maps neutral entry points ("/", "/dashboard") to the
// session's role home in a single hop.
type RedirectHandler struct {
	store ports.SessionStore
	log   zerolog.Logger
}

// NewRedirectHandler wires the role redirector.
func NewRedirectHandler(store ports.SessionStore, log zerolog.Logger) *RedirectHandler {
	return &RedirectHandler{store: store, log: log.With().Str("handler", "redirect").Logger()}
}

// Dispatch sends the visitor to their role home: admins to the admin
// board, lecturers and students to their dashboards, everyone else to
// the profile page. Unauthenticated visitors go to login.
func (h *RedirectHandler) Dispatch(c echo.Context) error {
	sess := h.store.Load(c.Request())
	if !sess.IsAuthenticated() || sess.User == nil {
		return c.Redirect(http.StatusFound, "/auth/login")
	}

	home, ok := domain.HomeRoute(sess.Roles())
	if !ok {
		home = profileFallback
	}
	h.log.Debug().Str("user_id", sess.User.ID).Str("home", home).Msg("dispatching to role home")
	return c.Redirect(http.StatusFound, home)
}
