package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-report/internal/config"
	"grocery-report/internal/logging"
	"grocery-report/internal/observability"
	"grocery-report/internal/orchestrator"
	"grocery-report/internal/tools"
)

// Server holds the HTTP handlers of the tool service.
type Server struct {
	registry *tools.Registry
	metrics  *observability.Metrics
	cfg      *config.Config
	logger   *zap.Logger
	started  time.Time
}

// NewServer creates a Server over an assembled runtime.
func NewServer(rt *orchestrator.Runtime, metrics *observability.Metrics, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		registry: rt.Registry,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		started:  time.Now(),
	}
}

// HealthResponse is the JSON response for the /health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Fixtures bool   `json:"fixtures"`
	Tools    int    `json:"tools"`
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.RequestLogger(s.logger), logging.Recovery(s.logger), corsMiddleware(s.cfg.Server.CORSOrigins))

	r.GET("/health", s.handleHealth)
	r.GET("/tools", s.handleListTools)
	r.POST("/tools/:name", s.handleInvoke)
	r.GET(s.cfg.Server.MetricsPath, gin.WrapH(s.metrics.Handler()))

	return r
}

// corsMiddleware allows the configured origins, or any origin without
// credentials when none are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders: []string{"Content-Type", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return cors.New(c)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Fixtures: s.cfg.UseFixtures,
		Tools:    len(s.registry.List()),
	})
}

func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.registry.List()})
}

func (s *Server) handleInvoke(c *gin.Context) {
	name := c.Param("name")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arguments must be a JSON object"})
		return
	}

	res, err := s.registry.Invoke(c.Request.Context(), name, body)
	if errors.Is(err, tools.ErrUnknownTool) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}
