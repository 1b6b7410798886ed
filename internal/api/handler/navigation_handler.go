package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/service"
)

// NavigationHandler serves the sidebar menu for the session's primary
// role.
type NavigationHandler struct{}

// NewNavigationHandler wires the navigation endpoint.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Menu returns the role-specific navigation tree, including which
// sections start expanded.
func (h *NavigationHandler) Menu(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	return c.JSON(http.StatusOK, service.NavigationFor(sess.Roles()))
}
