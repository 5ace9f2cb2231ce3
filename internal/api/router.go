package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/obralink/obra-monitor/docs"
	"github.com/obralink/obra-monitor/internal/api/handler"
	"github.com/obralink/obra-monitor/internal/api/middleware"
	"github.com/obralink/obra-monitor/internal/core/domain"
)

// Handlers bundles the wired handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	District *handler.DistrictHandler
	Project  *handler.ProjectHandler
	Report   *handler.ReportHandler
	Document *handler.DocumentHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every guarded route declares its required capability exactly once, here.
func NewRouter(h Handlers, resolver middleware.IdentityResolver, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("obra"))

	// --- Public routes ---
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/logout", h.Auth.Logout)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Guarded routes ---
	v1 := e.Group("/v1", middleware.Authenticate(resolver))

	v1.GET("/me", h.Auth.Me)

	v1.GET("/users", h.Auth.ListUsers, middleware.RequireCapability(domain.CapManageUsers))
	v1.POST("/users/:id/activate", h.Auth.Activate, middleware.RequireCapability(domain.CapManageUsers))
	v1.POST("/users/:id/deactivate", h.Auth.Deactivate, middleware.RequireCapability(domain.CapManageUsers))

	v1.GET("/districts", h.District.List, middleware.RequireCapability(domain.CapViewDistricts))
	v1.POST("/districts", h.District.Create, middleware.RequireCapability(domain.CapCreateDistrict))
	v1.PUT("/districts/:id", h.District.Update, middleware.RequireCapability(domain.CapEditDistrict))

	v1.GET("/projects", h.Project.List, middleware.RequireCapability(domain.CapViewProjects))
	v1.GET("/projects/:id", h.Project.Get, middleware.RequireCapability(domain.CapViewProjects))
	v1.POST("/projects", h.Project.Create, middleware.RequireCapability(domain.CapCreateProject))
	v1.PUT("/projects/:id", h.Project.Update, middleware.RequireCapability(domain.CapEditProject))
	v1.POST("/projects/:id/approve", h.Project.Approve, middleware.RequireCapability(domain.CapApproveProject))
	v1.POST("/projects/:id/status", h.Project.ChangeStatus, middleware.RequireCapability(domain.CapEditProject))
	v1.PUT("/projects/:id/sections", h.Project.ReplaceSections, middleware.RequireCapability(domain.CapManageSections))
	v1.DELETE("/projects/:id", h.Project.Delete, middleware.RequireCapability(domain.CapDeleteProject))

	v1.POST("/projects/:id/reports", h.Report.Submit, middleware.RequireCapability(domain.CapSubmitReport))
	v1.GET("/projects/:id/reports", h.Report.List, middleware.RequireCapability(domain.CapViewReports))

	v1.POST("/projects/:id/documents", h.Document.Register, middleware.RequireCapability(domain.CapUploadDocument))
	v1.GET("/projects/:id/documents", h.Document.List, middleware.RequireCapability(domain.CapViewDocuments))
	v1.DELETE("/documents/:id", h.Document.Delete, middleware.RequireCapability(domain.CapDeleteDocument))

	return e
}
