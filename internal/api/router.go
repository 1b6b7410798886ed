package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/handler"
	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
	"github.com/uniportal/thesis-portal/internal/core/service"
	"github.com/uniportal/thesis-portal/internal/ws"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	Store    ports.SessionStore
	Auth     ports.AuthAPI
	Topics   ports.TopicAPI
	Reports  ports.ReportAPI
	Accounts ports.AccountAPI
	Hub      *ws.Hub
	// Redis is nil when the cookie session backend is active.
	Redis *redis.Client
	// Upstream feeds the readiness probe; nil skips the check.
	Upstream     handler.UpstreamPinger
	LoginLimiter *middleware.RateLimiter
	Log          zerolog.Logger
}

// NewRouter builds the echo instance with the full route table. Each
// guarded family carries exactly one mismatch policy: the page families
// redirect silently to the visitor's role home, the account-management
// family renders the explicit access-denied surface.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("thesis_portal"))

	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Store)

	authH := handler.NewAuthHandler(deps.Auth, deps.Store, deps.Hub, deps.Log)
	redirectH := handler.NewRedirectHandler(deps.Store, deps.Log)
	navH := handler.NewNavigationHandler()
	studentH := handler.NewStudentHandler(deps.Topics, deps.Reports, deps.Log)
	lecturerH := handler.NewLecturerHandler(deps.Topics, deps.Log)
	adminH := handler.NewAdminHandler(deps.Accounts, deps.Log)
	healthH := handler.NewHealthHandler(deps.Redis, deps.Upstream)
	wsH := handler.NewWSHandler(deps.Hub, deps.Log)

	// Probes and metrics.
	e.GET("/health", healthH.Live)
	e.GET("/health/ready", healthH.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())

	// Public auth endpoints. The GET form is the landing target of guard
	// redirects.
	e.GET("/auth/login", authH.LoginPage)
	e.POST("/auth/login", authH.Login, deps.LoginLimiter.Middleware())
	e.POST("/auth/logout", authH.Logout)

	// Neutral entry points dispatch to the role home.
	e.GET("/", redirectH.Dispatch)
	e.GET("/dashboard", redirectH.Dispatch)

	// Authenticated, role-agnostic.
	requireAuth := middleware.RequireSession(deps.Store, "profile")
	e.GET("/profile", authH.Profile, requireAuth)
	e.POST("/profile/refresh", authH.RefreshProfile, requireAuth)
	e.GET("/api/navigation", navH.Menu, middleware.RequireSession(deps.Store, "navigation"))
	e.GET("/ws/sessions", wsH.SessionEvents, middleware.RequireSession(deps.Store, "ws"))

	// Student pages: wrong role is sent home without explanation.
	student := e.Group("/student", middleware.RequireRoles(
		deps.Store, service.RedirectPolicy{}, "student", domain.RoleStudent))
	student.GET("/dashboard", studentH.Dashboard)
	student.GET("/topics", studentH.AvailableTopics)
	student.POST("/topics/register", studentH.RegisterTopic)
	student.GET("/registrations", studentH.MyRegistrations)
	student.GET("/reports", studentH.Reports)
	student.POST("/reports", studentH.SubmitReport)

	// Lecturer pages: admins may enter too.
	lecturer := e.Group("/lecturer", middleware.RequireRoles(
		deps.Store, service.RedirectPolicy{}, "lecturer",
		domain.RoleLecturer, domain.RoleAdmin))
	lecturer.GET("/dashboard", lecturerH.Dashboard)
	lecturer.GET("/registrations", lecturerH.Registrations)
	lecturer.POST("/registrations/:id/approve", lecturerH.Approve)
	lecturer.GET("/topics", lecturerH.Topics)
	lecturer.POST("/topics", lecturerH.ProposeTopic)

	// Admin board: silent redirect like the other page families.
	adminGuard := middleware.RequireRoles(
		deps.Store, service.RedirectPolicy{}, "admin", domain.RoleAdmin)
	e.GET("/admin", adminH.Overview, adminGuard)

	// Account management: the one family that confronts the user with an
	// explicit denial instead of bouncing them.
	accounts := e.Group("/admin/accounts", middleware.RequireRoles(
		deps.Store, service.DenyPolicy{}, "admin_accounts", domain.RoleAdmin))
	accounts.GET("", adminH.Accounts)
	accounts.POST("", adminH.CreateAccount)
	accounts.PUT("/:id/roles", adminH.UpdateRoles)

	return e
}
