package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/rosterhq/roster-api/docs"
	"github.com/rosterhq/roster-api/internal/api/handler"
	"github.com/rosterhq/roster-api/internal/api/middleware"
	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// db and rdb are only used by the readiness probe and may be nil. promReg
// isolates request metrics; a nil registry selects the process default.
func NewRouter(authService ports.AuthService, studentService ports.StudentService, db *mongo.Database, rdb *redis.Client, promReg *prometheus.Registry, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	metricsMW, metricsHandler := requestMetrics(promReg)
	e.Use(metricsMW)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	authn := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/token", authHandler.Token)

	// --- Roster routes ---
	// Listing is the user panel and is gated user-only; mutations and single
	// reads are admin-only. The gates are exact sets, not a hierarchy.
	e.GET("/students", studentHandler.List, authn, middleware.RBAC(domain.RoleUser))

	adminStudents := e.Group("/students", authn, middleware.RBAC(domain.RoleAdmin))
	adminStudents.POST("", studentHandler.Create)
	adminStudents.GET("/:id", studentHandler.Get)
	adminStudents.PUT("/:id", studentHandler.Update)
	adminStudents.DELETE("/:id", studentHandler.Delete)

	// --- API docs (admins only) ---
	docs := e.Group("/docs", authn, middleware.RBAC(domain.RoleAdmin))
	docs.GET("/*", echoswagger.WrapHandler)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler)

	return e
}

// requestMetrics wires the echoprometheus request instrumentation against
// either the process-default registry or an isolated one.
func requestMetrics(reg *prometheus.Registry) (echo.MiddlewareFunc, echo.HandlerFunc) {
	if reg == nil {
		return echoprometheus.NewMiddleware("roster"), echoprometheus.NewHandler()
	}
	mw := echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "roster",
		Registerer: reg,
	})
	h := echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: reg,
	})
	return mw, h
}
