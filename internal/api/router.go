package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/opsdesk/approvals/internal/api/handler"
	"github.com/opsdesk/approvals/internal/api/middleware"
	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/ports"
)

// Dependencies carries everything the router needs. Pool, Redis, Limiter,
// and AllowedOrigins are optional; nil/empty values disable the readiness
// details, rate limiting, and CORS respectively.
type Dependencies struct {
	Requests       ports.RequestService
	Tokens         ports.TokenService
	Directory      *domain.Directory
	Limiter        middleware.Limiter
	Pool           *pgxpool.Pool
	Redis          *redis.Client
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("approvals"))
	if len(deps.AllowedOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: deps.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, "user-id", echo.HeaderAuthorization},
		}))
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Pool, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Token minting (identity established by the payload itself) ---
	authHandler := handler.NewAuthHandler(deps.Directory, deps.Tokens)
	e.POST("/auth/token", authHandler.Token)

	// --- Workflow routes ---
	requestHandler := handler.NewRequestHandler(deps.Requests)
	authMW := middleware.Auth(deps.Directory, deps.Tokens)
	limitMW := middleware.RateLimit(deps.Limiter)

	g := e.Group("/requests", authMW)
	g.GET("", requestHandler.ListOwn)
	g.GET("/pending", requestHandler.ListPending)
	g.POST("", requestHandler.Create, limitMW)
	g.POST("/:id/submit", requestHandler.Submit, limitMW)
	g.POST("/:id/approve", requestHandler.Approve, limitMW)
	g.POST("/:id/reject", requestHandler.Reject, limitMW)
	g.PATCH("/:id/edit", requestHandler.Edit, limitMW)
	g.DELETE("/:id", requestHandler.Delete, limitMW)

	return e
}
