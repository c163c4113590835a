package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type RouterConfig struct {
	Server ServerInterface
	Spec   *openapi3.T
	// Sessions gates the API routes. Nil disables the gate.
	Sessions SessionStore
	// Realtime serves /ws.
	Realtime     http.Handler
	Gatherer     prometheus.Gatherer
	AllowOrigins []string
	Logger       *slog.Logger
}

// NewRouter assembles the echo instance: operational endpoints at the root,
// API routes behind request validation and the session gate.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	if cfg.Server == nil || cfg.Spec == nil || cfg.Logger == nil {
		return nil, errors.New("router: server, spec and logger are required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(Metrics())
	e.Use(RequestLogger(cfg.Logger.With("component", "http")))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	if err := registerDoc(cfg.Spec); err != nil {
		return nil, err
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.Realtime != nil {
		e.GET("/ws", echo.WrapHandler(cfg.Realtime))
	}

	validator, err := OpenAPIValidator(cfg.Spec)
	if err != nil {
		return nil, err
	}

	var guards []echo.MiddlewareFunc
	if cfg.Sessions != nil {
		guards = append(guards, SessionGate(cfg.Sessions, cfg.Logger))
	}
	guards = append(guards, validator)

	RegisterHandlers(e, cfg.Server, guards...)

	return e, nil
}
