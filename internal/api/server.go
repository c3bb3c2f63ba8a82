package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"timeledger/internal/config"
	"timeledger/internal/metrics"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/services"
)

// Server is the HTTP boundary of the ledger
type Server struct {
	echo     *echo.Echo
	services *services.ServiceContainer
	repo     sqldb.Repository
	config   *config.Config
	logger   *zap.Logger
}

// New creates a server over the given services. The repository is only used for health checks.
func New(svc *services.ServiceContainer, repo sqldb.Repository, cfg *config.Config, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		services: svc,
		repo:     repo,
		config:   cfg,
		logger:   logger,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.observe)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")

	// Auth endpoints (public)
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.PUT("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.POST("/projects/:id/timer/start", s.handleStartTimer)
	protected.POST("/projects/:id/timer/stop", s.handleStopTimer)
	protected.GET("/projects/:id/timer/current", s.handleCurrentTimer)

	protected.GET("/time-entries", s.handleListTimeEntries)
	protected.POST("/time-entries/:projectId/manual", s.handleAddManualEntry)
	protected.PUT("/time-entries/:id", s.handleUpdateTimeEntry)
	protected.DELETE("/time-entries/:id", s.handleDeleteTimeEntry)

	protected.GET("/warnings", s.handleWarnings)

	protected.GET("/reports", s.handleReport)
	protected.GET("/reports/export/:format", s.handleExport)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Run serves on the configured address until ctx is cancelled, then shuts down
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.config.Server.Addr))
		errCh <- s.echo.Start(s.config.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if s.repo == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
