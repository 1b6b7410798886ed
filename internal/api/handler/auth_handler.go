package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/metrics"
	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
	"github.com/uniportal/thesis-portal/internal/ws"
)

// AuthHandler owns the login, logout and profile endpoints.
type AuthHandler struct {
	auth  ports.AuthAPI
	store ports.SessionStore
	hub   *ws.Hub
	log   zerolog.Logger
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(auth ports.AuthAPI, store ports.SessionStore, hub *ws.Hub, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		store: store,
		hub:   hub,
		log:   log.With().Str("handler", "auth").Logger(),
	}
}

// LoginPage answers the redirect target of every guard denial. The portal
// serves data rather than markup, so the page is a JSON prompt echoing the
// attempted path back to the client.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Vui lòng đăng nhập để tiếp tục",
		"login":    "/auth/login",
		"redirect": c.QueryParam("redirect"),
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User     *domain.User `json:"user"`
	Role     string       `json:"role"`
	Redirect string       `json:"redirect"`
}

// Login authenticates against the thesis API, persists the session and
// tells the caller where to land. A ?redirect= query param set by an
// earlier guard redirect wins over the role home, as long as it is a
// local path.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Tên đăng nhập hoặc mật khẩu không đúng",
			})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := h.store.Save(c.Response(), c.Request(), token, user); err != nil {
		h.log.Error().Err(err).Msg("persisting session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Đã có lỗi xảy ra")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("user_id", user.ID).Strs("roles", user.RoleStrings()).Msg("login succeeded")
	h.hub.Notify(user.ID, ws.EventSessionChanged)

	return c.JSON(http.StatusOK, loginResponse{
		User:     user,
		Role:     domain.RoleDisplayName(user.RoleStrings()),
		Redirect: loginDestination(c.QueryParam("redirect"), user),
	})
}

// loginDestination picks the post-login landing path. Only local paths
// from the redirect param are honoured, so a crafted link cannot bounce
// the user off-site.
func loginDestination(redirect string, user *domain.User) string {
	if redirect != "" && strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		return redirect
	}
	if home, ok := domain.HomeRoute(user.RoleStrings()); ok {
		return home
	}
	return "/profile"
}

// Logout revokes the upstream token on a best-effort basis and always
// clears the local session, whatever the upstream said.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := h.store.Load(c.Request())

	if sess.IsAuthenticated() {
		if err := h.auth.Logout(c.Request().Context(), sess.Token); err != nil {
			h.log.Warn().Err(err).Msg("upstream logout failed, clearing session anyway")
		}
	}

	if err := h.store.Clear(c.Response(), c.Request()); err != nil {
		h.log.Error().Err(err).Msg("clearing session failed")
	}
	if sess.User != nil {
		h.hub.Notify(sess.User.ID, ws.EventSessionCleared)
	}

	return c.Redirect(http.StatusFound, "/auth/login")
}

type profileResponse struct {
	User        *domain.User `json:"user"`
	DisplayName string       `json:"displayName"`
	Role        string       `json:"role"`
}

// Profile returns the session's user record.
func (h *AuthHandler) Profile(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	return c.JSON(http.StatusOK, profileResponse{
		User:        sess.User,
		DisplayName: sess.User.DisplayName(),
		Role:        domain.RoleDisplayName(sess.Roles()),
	})
}

// RefreshProfile re-fetches the user record from the thesis API and
// rewrites the session's user slot, so role changes take effect without
// a re-login.
func (h *AuthHandler) RefreshProfile(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	user, err := h.auth.Profile(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	if err := h.store.Save(c.Response(), c.Request(), sess.Token, user); err != nil {
		h.log.Error().Err(err).Msg("persisting refreshed session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Đã có lỗi xảy ra")
	}
	h.hub.Notify(user.ID, ws.EventSessionChanged)

	return c.JSON(http.StatusOK, profileResponse{
		User:        user,
		DisplayName: user.DisplayName(),
		Role:        domain.RoleDisplayName(user.RoleStrings()),
	})
}
