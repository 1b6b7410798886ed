package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

// LecturerHandler owns the lecturer-facing topic and confirmation
// endpoints.
type LecturerHandler struct {
	topics ports.TopicAPI
	log    zerolog.Logger
}

// NewLecturerHandler wires the lecturer endpoints.
func NewLecturerHandler(topics ports.TopicAPI, log zerolog.Logger) *LecturerHandler {
	return &LecturerHandler{topics: topics, log: log.With().Str("handler", "lecturer").Logger()}
}

type lecturerDashboard struct {
	PendingCount  int                         `json:"pendingCount"`
	ApprovedCount int                         `json:"approvedCount"`
	Registrations []domain.RegistrationDetail `json:"registrations"`
}

// Dashboard summarizes the registrations awaiting the lecturer's
// confirmation.
func (h *LecturerHandler) Dashboard(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	regs, err := h.topics.StudentRegistrations(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}

	var pending, approved int
	for _, r := range regs {
		switch r.Status {
		case domain.RegistrationPending:
			pending++
		case domain.RegistrationApproved:
			approved++
		}
	}
	return c.JSON(http.StatusOK, lecturerDashboard{
		PendingCount:  pending,
		ApprovedCount: approved,
		Registrations: regs,
	})
}

// Registrations lists the student registrations under this lecturer.
func (h *LecturerHandler) Registrations(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	regs, err := h.topics.StudentRegistrations(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, regs)
}

type approveRequest struct {
	IsApproved bool   `json:"isApproved"`
	Notes      string `json:"notes"`
}

// Approve confirms or rejects one student registration.
func (h *LecturerHandler) Approve(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "Mã đăng ký không hợp lệ")
	}

	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	sess := middleware.SessionFromContext(c)
	reg, err := h.topics.ApproveRegistration(c.Request().Context(), sess.Token, ports.ApproveRegistrationInput{
		RegistrationID: id,
		IsApproved:     req.IsApproved,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	h.log.Info().Str("user_id", sess.User.ID).Int("registration_id", id).Bool("approved", req.IsApproved).
		Msg("registration decided")
	return c.JSON(http.StatusOK, reg)
}

// Topics lists the lecturer's proposed topics.
func (h *LecturerHandler) Topics(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	topics, err := h.topics.ProposedTopics(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, topics)
}

type proposeTopicRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ProposeTopic submits a new thesis topic for the current round.
func (h *LecturerHandler) ProposeTopic(c echo.Context) error {
	var req proposeTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := middleware.SessionFromContext(c)
	topic, err := h.topics.ProposeTopic(c.Request().Context(), sess.Token, ports.ProposeTopicInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, topic)
}
