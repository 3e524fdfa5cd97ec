// Package server exposes the forest operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvtree/internal/config"
	"github.com/katalvlaran/lvtree/internal/records"
	"github.com/katalvlaran/lvtree/internal/service"
)

// Server provides HTTP endpoints for the forest service.
type Server struct {
	echo     *echo.Echo
	forester *service.Forester
	logger   *zap.Logger
	config   config.ServerConfig
}

// New creates a server. gatherer backs GET /metrics; nil disables the route.
func New(cfg config.ServerConfig, forester *service.Forester, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	if forester == nil {
		return nil, fmt.Errorf("forester cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.MaxBodyBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)))
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		forester: forester,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes(gatherer)

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/forest", s.handleBuild)
	v1.POST("/forest/path", s.handlePath)
	v1.POST("/forest/subtree", s.handleSubtree)
}

// Response is the envelope of every API reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// BuildRequest is the request body for POST /api/v1/forest.
type BuildRequest struct {
	Records []*records.Record `json:"records"`
}

// QueryRequest is the request body for the path and subtree endpoints.
type QueryRequest struct {
	ID      string            `json:"id"`
	Records []*records.Record `json:"records"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "ok", Data: data})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleBuild(c echo.Context) error {
	var req BuildRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid build request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	forest, err := s.forester.Build(c.Request().Context(), records.Detach(req.Records))
	if err != nil {
		return statusError(err)
	}

	return ok(c, forest)
}

func (s *Server) handlePath(c echo.Context) error {
	req, err := s.bindQuery(c)
	if err != nil {
		return err
	}

	path, err := s.forester.Path(c.Request().Context(), req.ID, records.Detach(req.Records))
	if err != nil {
		return statusError(err)
	}

	return ok(c, path)
}

func (s *Server) handleSubtree(c echo.Context) error {
	req, err := s.bindQuery(c)
	if err != nil {
		return err
	}

	chain, err := s.forester.Subtree(c.Request().Context(), req.ID, records.Detach(req.Records))
	if err != nil {
		return statusError(err)
	}

	return ok(c, chain)
}

func (s *Server) bindQuery(c echo.Context) (*QueryRequest, error) {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid query request", zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ID == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "id field is required")
	}

	return &req, nil
}

// statusError maps service errors onto HTTP statuses.
func statusError(err error) error {
	switch {
	case service.IsInvalidInput(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, service.ErrTooManyRecords):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}

// errorHandler renders every failure in the response envelope.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, isString := he.Message.(string); isString {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Int("status", code), zap.Error(err))
		}

		if err := c.JSON(code, Response{Code: code, Message: message}); err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
