package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

// AdminHandler owns the admin board and account-management endpoints.
type AdminHandler struct {
	accounts ports.AccountAPI
	log      zerolog.Logger
}

// NewAdminHandler wires the admin endpoints.
func NewAdminHandler(accounts ports.AccountAPI, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, log: log.With().Str("handler", "admin").Logger()}
}

type adminOverview struct {
	TotalAccounts int            `json:"totalAccounts"`
	ByRole        map[string]int `json:"byRole"`
	Accounts      []domain.User  `json:"accounts"`
}

// Overview is the admin board: the account list plus per-role counts.
func (h *AdminHandler) Overview(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	users, err := h.accounts.ListAccounts(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}

	byRole := make(map[string]int)
	for _, u := range users {
		if role, ok := domain.PrimaryRole(u.RoleStrings()); ok {
			byRole[string(role)]++
		} else {
			byRole["unknown"]++
		}
	}
	return c.JSON(http.StatusOK, adminOverview{
		TotalAccounts: len(users),
		ByRole:        byRole,
		Accounts:      users,
	})
}

// Accounts lists every account on the thesis system.
func (h *AdminHandler) Accounts(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	users, err := h.accounts.ListAccounts(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

type createAccountRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	FullName string   `json:"fullName" validate:"required"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=admin lecturer teacher moderator student user"`
}

// CreateAccount provisions a new account with an explicit role set.
func (h *AdminHandler) CreateAccount(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := middleware.SessionFromContext(c)
	user, err := h.accounts.CreateAccount(c.Request().Context(), sess.Token, ports.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}

	h.log.Info().Str("admin_id", sess.User.ID).Str("created_id", user.ID).Strs("roles", req.Roles).
		Msg("account created")
	return c.JSON(http.StatusCreated, user)
}

type updateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=admin lecturer teacher moderator student user"`
}

// UpdateRoles replaces an account's role set.
func (h *AdminHandler) UpdateRoles(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Mã tài khoản không hợp lệ")
	}

	var req updateRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := middleware.SessionFromContext(c)
	user, err := h.accounts.UpdateRoles(c.Request().Context(), sess.Token, userID, req.Roles)
	if err != nil {
		return err
	}

	h.log.Info().Str("admin_id", sess.User.ID).Str("target_id", userID).Strs("roles", req.Roles).
		Msg("roles updated")
	return c.JSON(http.StatusOK, user)
}
