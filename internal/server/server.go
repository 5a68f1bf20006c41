// internal/server/server.go

// Package server wires the HTTP transport: routing, middleware, and the
// request handlers for the suggestion engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/observability"
	"suggestion-engine/internal/orchestrator"
	"suggestion-engine/internal/ratelimit"
	"suggestion-engine/internal/tenant"
)

// Server hosts the public API.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	resolver     *tenant.Resolver
	limiter      *ratelimit.Limiter
	orchestrator *orchestrator.Orchestrator
	obs          *observability.Observability
	serviceName  string
	log          logger.Logger
}

func New(cfg config.ServerConfig, serviceName string, resolver *tenant.Resolver, limiter *ratelimit.Limiter, orch *orchestrator.Orchestrator, obs *observability.Observability, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		resolver:     resolver,
		limiter:      limiter,
		orchestrator: orch,
		obs:          obs,
		serviceName:  serviceName,
		log:          log.With(map[string]interface{}{"component": "http-server"}),
	}

	engine := gin.New()
	engine.Use(RequestID(), AccessLog(s.log), Recovery(s.log))

	engine.GET("/healthz", s.handleHealthz)
	v1 := engine.Group("/api/v1")
	{
		v1.GET("/suggestions", s.handleSuggestions)
		v1.POST("/suggestions", s.handleSuggestions)
	}

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
