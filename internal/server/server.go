package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pixpoll/config"
	"pixpoll/internal/handler"
	"pixpoll/internal/middleware"
	"pixpoll/internal/redis"
	"pixpoll/internal/transport/httpdto"
	"pixpoll/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// HealthFunc reports whether the store is reachable.
type HealthFunc func(ctx context.Context) error

// Handlers wires the routes. VoteLimiter is nil when vote throttling is off.
type Handlers struct {
	Poll        *handler.PollHandler
	VoteLimiter *redis.RateLimiter
	Health      HealthFunc
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	// Vote source addresses and rate-limit keys come from ClientIP, so
	// forwarding headers only count when they come from a listed proxy.
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		if l != nil {
			l.Errorf("Invalid TRUSTED_PROXIES %v, trusting no proxy: %s", cfg.TrustedProxies, err)
		}
		_ = engine.SetTrustedProxies(nil)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.StatusBody{OK: true, Status: "ok", Message: "pong"})
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if handlers.Health != nil {
			if err := handlers.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorBody(httpdto.CodeUnhealthy, err.Error()))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewStatusBody("healthy"))
	})

	s.engine.POST("/poll", handlers.Poll.CreatePoll)
	s.engine.GET("/poll/:poll_id", handlers.Poll.GetPoll)

	s.engine.POST("/candidate", handlers.Poll.CreateCandidate)
	candidate := s.engine.Group("/candidate/:candidate_id")
	{
		candidate.GET("", handlers.Poll.GetCandidate)

		vote := []gin.HandlerFunc{handlers.Poll.CastVote}
		if handlers.VoteLimiter != nil {
			vote = append([]gin.HandlerFunc{middleware.VoteRateLimitMiddleware(handlers.VoteLimiter, s.logger)}, vote...)
		}
		candidate.GET("/vote", vote...)
		candidate.POST("/vote", vote...)
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to SHUTDOWN_TIMEOUT.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if s.logger != nil {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
		return err
	case <-quit:
	}

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down within %s", s.config.ShutdownTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
