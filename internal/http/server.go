package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"warehouse-service/internal/auth"
	"warehouse-service/internal/config"
	"warehouse-service/internal/http/handler"
	"warehouse-service/internal/http/middleware"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus     = "status"
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	requestBodyLimit  = "1M"
	healthPingTimeout = 2 * time.Second

	// The query string carries view-link signatures, so only the path is logged.
	requestLogFormat = `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}",` +
		`"method":"${method}","path":"${path}","status":${status},"latency":"${latency_human}"}` + "\n"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	DB             Pinger
	UserRepo       handler.UserRepository
	ReportRepo     handler.ReportRepository
	Credentials    handler.CredentialIssuer
	ViewLinks      handler.ViewLinkService
	AuthMiddleware *auth.Middleware
	AuditLogger    handler.AuditRecorder
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	metrics := middleware.NewMetrics()

	// Request ID first, so every log line carries it.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.LoggerWithConfig(echomiddleware.LoggerConfig{Format: requestLogFormat}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(metrics.Middleware())

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()
	apiRateLimiter := middleware.NewAPIRateLimiter()

	authHandler := handler.NewAuthHandler(deps.UserRepo, deps.Credentials, deps.Config.Auth.CredentialTTL, deps.AuditLogger)
	reportHandler := handler.NewReportHandler(deps.ReportRepo, deps.ViewLinks, deps.Config.Auth.ViewLinkTTL, deps.Config.App.PublicBaseURL, deps.AuditLogger)

	s := &Server{
		echo: e,
		deps: deps,
	}

	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.GET("/health", s.healthCheck)
	e.GET("/view/reports/:id", reportHandler.View)

	mw := deps.AuthMiddleware
	limited := apiRateLimiter.Middleware()

	api := e.Group("/api")
	api.GET("/me", authHandler.Me, mw.RequireRoles(), limited)
	api.GET("/reports/:id/document", reportHandler.Document, mw.RequireRoles(auth.RoleAdmin, auth.RoleStaff, auth.RoleViewer), limited)
	api.POST("/reports/:id/view-link", reportHandler.CreateViewLink, mw.RequireRoles(auth.RoleAdmin, auth.RoleStaff), limited)
	api.GET("/metrics", metrics.Handler, mw.RequireRoles(auth.RoleAdmin))

	if deps.Config.Server.EnableProfiling {
		registerProfiling(e.Group("/debug/pprof", mw.RequireRoles(auth.RoleAdmin)))
	}

	return s
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be driven directly by tests and wrappers.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) healthCheck(c echo.Context) error {
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()

		if err := s.deps.DB.Ping(ctx); err != nil {
			c.Logger().Errorf("health check: database ping failed: %v", err)
			return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{
				jsonKeyStatus: statusUnavailable,
			})
		}
	}

	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
