package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/quotemate/gateway/internal/api/handler"
	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
	"github.com/quotemate/gateway/internal/core/service"
	"github.com/quotemate/gateway/internal/infrastructure/http/handlers"
)

// Deps holds everything the router needs. Services are built by the caller
// so the router stays free of connection details.
type Deps struct {
	Auth          *service.AuthService
	Authenticator ports.Authenticator
	Projects      *service.ProjectContexts
	Matches       ports.MatchService
	Calls         ports.CallService
	Retell        ports.RetellBackend
	Uploads       ports.UploadService
	Directory     ports.DirectoryService
	Submissions   ports.SubmissionGuard
	LoginLimiter  *limiter.Limiter
	Checks        map[string]handlers.Check
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer

	AllowedOrigins []string
	SecureCookies  bool
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.TabHeader},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "quotemate",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Health checks, metrics and docs (no session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Authenticator, d.Log)
	navHandler := handler.NewNavigationHandler()
	projectHandler := handler.NewProjectHandler(d.Projects)
	matchHandler := handler.NewMatchHandler(d.Matches, d.Projects)
	callHandler := handler.NewCallHandler(d.Calls, d.Retell, d.Projects)
	uploadHandler := handler.NewUploadHandler(d.Uploads, d.Projects, d.Log)
	directoryHandler := handler.NewDirectoryHandler(d.Directory)
	subHandler := handler.NewSubcontractorHandler(d.Matches)

	once := func(form string) echo.MiddlewareFunc {
		return middleware.SingleSubmission(d.Submissions, form, d.Log)
	}

	api := e.Group("/api", middleware.Scope(d.SecureCookies), middleware.AuthProvider(d.Auth))

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login, middleware.RateLimit(d.LoginLimiter, "login", d.Log), once("login"))
	auth.POST("/signup", authHandler.Signup, middleware.RateLimit(d.LoginLimiter, "signup", d.Log), once("signup"))
	auth.POST("/forgot-password", authHandler.ForgotPassword, middleware.RateLimit(d.LoginLimiter, "forgot", d.Log))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)

	// --- Navigation ---
	api.GET("/navigate", navHandler.Navigate)
	api.GET("/home", navHandler.Home)

	// --- Signed-in routes ---
	// Guards go on routes, not empty-prefix groups, so unknown /api paths stay 404.
	signedIn := middleware.RequireAuth()
	api.GET("/project", projectHandler.Get, signedIn)
	api.PUT("/project", projectHandler.Put, signedIn)
	api.DELETE("/project", projectHandler.Delete, signedIn)
	api.GET("/subcontractors/:id", callHandler.Subcontractor, signedIn)
	api.GET("/projects/:id", callHandler.Project, signedIn)

	// --- Builder routes ---
	builder := middleware.RequireRole(domain.RoleBuilder)
	api.POST("/files/process", uploadHandler.Process, builder, once("upload"))
	api.POST("/matches/subcontractors", matchHandler.Subcontractors, builder)
	api.POST("/matches/subcontractors/from-file", matchHandler.SubcontractorsFromFile, builder)
	api.POST("/matches/export", matchHandler.Export, builder)
	api.GET("/builder/contacted-subcontractors", callHandler.Contacted, builder)
	api.POST("/builder/directory", directoryHandler.Import, builder)
	api.POST("/calls", callHandler.StartCall, builder, once("call"))
	api.GET("/calls", callHandler.History, builder)
	api.POST("/calls/webhook", callHandler.Webhook, builder)

	// --- Subcontractor routes ---
	sub := middleware.RequireRole(domain.RoleSubcontractor)
	api.POST("/matches/projects", matchHandler.Projects, sub)
	api.POST("/subcontractor/register", subHandler.Register, sub, once("subcontractor-register"))

	return e
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
