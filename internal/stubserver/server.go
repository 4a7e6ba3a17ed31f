// Package stubserver is a local stand-in for the API server's work-progress
// and AI routes. It backs development and integration testing when the real
// Express server is not running: activity logs live in memory and AI routes
// answer deterministically.
package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/workprogress"
)

// Config holds stub server settings.
type Config struct {
	Host string
	Port int
}

// Server serves the emulated routes.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	config *Config

	mu         sync.Mutex
	activities map[string]*workprogress.ActivityLog
	bySession  map[string][]string
	nextID     int

	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// NewServer creates a stub server.
func NewServer(logger *zap.Logger, cfg *Config) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("stubserver: logger is required")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 5000}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	registry := prometheus.NewRegistry()
	s := &Server{
		echo:       e,
		logger:     logger,
		config:     cfg,
		activities: map[string]*workprogress.ActivityLog{},
		bySession:  map[string][]string{},
		registry:   registry,
		requests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "stubserver_requests_total",
			Help: "Requests served, labeled by route and status.",
		}, []string{"route", "status"}),
	}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			s.requests.WithLabelValues(c.Path(), fmt.Sprintf("%d", c.Response().Status)).Inc()
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	wp := s.echo.Group("/api/work-progress")
	wp.POST("/activities", s.handleCreateActivity)
	wp.PUT("/activities/:id/end", s.handleEndActivity)
	wp.GET("/sessions/:id/activities", s.handleSessionActivities)
	wp.GET("/daily-info", s.handleDailyInfo)

	// The real server mounts the AI routes under both prefixes.
	for _, g := range []*echo.Group{s.echo.Group("/api/ai"), wp.Group("/ai")} {
		g.POST("/ask", s.handleAsk)
		g.POST("/answer-from-context", s.handleAnswerFromContext)
	}
	ai := s.echo.Group("/api/ai")
	ai.POST("/generate-report", s.handleGenerateReport)
	ai.POST("/analyze-work", s.handleAnalyzeWork)
	ai.POST("/predict-duration", s.handlePredictDuration)
	ai.POST("/prioritize-tasks", s.handlePrioritizeTasks)
	ai.POST("/generate-brag-sheet", s.handleGenerateBragSheet)
	ai.POST("/expand-task", s.handleExpandTask)
	ai.POST("/identify-risks", s.handleIdentifyRisks)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start begins serving and blocks until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("stub server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
