package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dmlogistics/portal/internal/api/handler"
	"github.com/dmlogistics/portal/internal/api/middleware"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Tracking   ports.TrackingResolver
	Sessions   handler.SessionTracker
	Shipments  ports.ShipmentService
	Receipts   ports.ReceiptGenerator
	Activity   ports.ActivityRepository
	Health     []handler.DependencyChecker
	JWTSecret  string
	EnableDocs bool
	Logger     zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler(deps.Health...)
	trackingHandler := handler.NewTrackingHandler(deps.Tracking, deps.Sessions)
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments, deps.Receipts, deps.Logger)
	activityHandler := handler.NewActivityHandler(deps.Activity)

	// --- Probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	if deps.EnableDocs {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v1 := e.Group("/v1")

	// --- Public tracking ---
	v1.GET("/tracking/:tracking_number", trackingHandler.Track)

	// --- Authenticated shipment routes ---
	auth := middleware.Auth(deps.JWTSecret)
	shipments := v1.Group("/shipments", auth)
	shipments.GET("", shipmentHandler.List)
	shipments.POST("", shipmentHandler.Create)
	shipments.GET("/:tracking_number/receipt", shipmentHandler.Receipt)
	shipments.PATCH("/:tracking_number/status", shipmentHandler.UpdateStatus, middleware.AdminTier())

	// --- Back office ---
	admin := v1.Group("/admin", auth, middleware.AdminTier())
	admin.GET("/activity", activityHandler.List)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
