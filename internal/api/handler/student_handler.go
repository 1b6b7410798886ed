package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

// StudentHandler owns the student-facing topic and report endpoints.
type StudentHandler struct {
	topics  ports.TopicAPI
	reports ports.ReportAPI
	log     zerolog.Logger
}

// NewStudentHandler wires the student endpoints.
func NewStudentHandler(topics ports.TopicAPI, reports ports.ReportAPI, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		topics:  topics,
		reports: reports,
		log:     log.With().Str("handler", "student").Logger(),
	}
}

type studentDashboard struct {
	Registrations []domain.Registration `json:"registrations"`
	Reports       []domain.Report       `json:"reports"`
	PendingCount  int                   `json:"pendingCount"`
}

// Dashboard aggregates the student's registrations and weekly reports.
func (h *StudentHandler) Dashboard(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	ctx := c.Request().Context()

	regs, err := h.topics.MyRegistrations(ctx, sess.Token)
	if err != nil {
		return err
	}
	reports, err := h.reports.Reports(ctx, sess.Token)
	if err != nil {
		return err
	}

	pending := 0
	for _, r := range regs {
		if r.Status == domain.RegistrationPending {
			pending++
		}
	}
	return c.JSON(http.StatusOK, studentDashboard{
		Registrations: regs,
		Reports:       reports,
		PendingCount:  pending,
	})
}

// AvailableTopics lists open topics with optional teacher/topic name
// filters. A 401 from this endpoint is surfaced to the caller as-is
// rather than destroying the session, because the thesis API sometimes
// rejects registration-window queries for non-session reasons.
func (h *StudentHandler) AvailableTopics(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	search := ports.TopicSearch{
		TeacherName: c.QueryParam("teacherName"),
		TopicName:   c.QueryParam("topicName"),
		Page:        intParam(c.QueryParam("page"), 1),
		Limit:       intParam(c.QueryParam("limit"), 10),
	}

	page, err := h.topics.AvailableTopics(c.Request().Context(), sess.Token, search)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnauthorized) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Không thể tải danh sách đề tài, vui lòng thử lại",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, page)
}

type registerTopicRequest struct {
	ThesisRoundID int    `json:"thesisRoundId" validate:"required,gt=0"`
	InstructorID  int    `json:"instructorId" validate:"required,gt=0"`
	Notes         string `json:"notes"`
}

// RegisterTopic submits a topic registration for the current round.
func (h *StudentHandler) RegisterTopic(c echo.Context) error {
	var req registerTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := middleware.SessionFromContext(c)
	reg, err := h.topics.RegisterTopic(c.Request().Context(), sess.Token, ports.RegisterTopicInput{
		ThesisRoundID: req.ThesisRoundID,
		InstructorID:  req.InstructorID,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnauthorized) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Đăng ký đề tài thất bại, vui lòng thử lại",
			})
		}
		return err
	}

	h.log.Info().Str("user_id", sess.User.ID).Int("round_id", req.ThesisRoundID).Msg("topic registered")
	return c.JSON(http.StatusCreated, reg)
}

// MyRegistrations lists the student's own registrations across rounds.
func (h *StudentHandler) MyRegistrations(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	regs, err := h.topics.MyRegistrations(c.Request().Context(), sess.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnauthorized) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Không thể tải danh sách đăng ký, vui lòng thử lại",
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, regs)
}

// Reports lists the student's weekly progress reports.
func (h *StudentHandler) Reports(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	reports, err := h.reports.Reports(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}

type submitReportRequest struct {
	Week          int    `json:"week" validate:"required,gt=0"`
	Content       string `json:"content" validate:"required"`
	AttachmentURL string `json:"attachmentUrl"`
}

// SubmitReport files a weekly progress report.
func (h *StudentHandler) SubmitReport(c echo.Context) error {
	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := middleware.SessionFromContext(c)
	report, err := h.reports.SubmitReport(c.Request().Context(), sess.Token, ports.SubmitReportInput{
		Week:          req.Week,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
