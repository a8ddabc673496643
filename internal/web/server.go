package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
	"github.com/tianzeyuan99/website-monitor/internal/monitor"
	"github.com/tianzeyuan99/website-monitor/internal/storage"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 30 * time.Second

	defaultRunListLimit = 20
	maxRunListLimit     = 100
)

// RunStarter launches a monitoring run in the background. It returns
// monitor.ErrRunInProgress when a run is already active.
type RunStarter func() error

// Server exposes the monitoring state over HTTP: live progress while a
// run is active, the stored results once it finishes.
type Server struct {
	log     logrus.FieldLogger
	tracker *monitor.StatusTracker
	repo    storage.RunRepository
	start   RunStarter
	engine  *gin.Engine
}

// NewServer assembles the gin router around the given collaborators.
func NewServer(tracker *monitor.StatusTracker, repo storage.RunRepository, start RunStarter, logger logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	s := &Server{
		log:     logger.WithField("component", "web"),
		tracker: tracker,
		repo:    repo,
		start:   start,
		engine:  engine,
	}

	engine.GET("/health", s.handleHealth)
	api := engine.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/start", s.handleStart)
		api.GET("/404links", s.handleNotFoundLinks)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/latest", s.handleLatestRun)
	}

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.WithError(err).Error("Server forced to shutdown")
		return err
	}
	s.log.Info("HTTP server exited")
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "website-monitor",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleStart(c *gin.Context) {
	if err := s.start(); err != nil {
		if errors.Is(err, monitor.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "monitoring already in progress",
			})
			return
		}
		s.log.WithError(err).Error("Failed to start monitoring run")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to start monitoring",
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "monitoring started",
	})
}

func (s *Server) handleNotFoundLinks(c *gin.Context) {
	run, err := s.repo.LatestRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNoRuns) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "no monitoring data yet",
				"data":    []domain.SiteFailureRecord{},
				"count":   0,
			})
			return
		}
		s.log.WithError(err).Error("Failed to load latest run")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to read monitoring data",
			"data":    []domain.SiteFailureRecord{},
			"count":   0,
		})
		return
	}

	records := run.FailureRecords(http.StatusNotFound)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         records,
		"count":        len(records),
		"generated_at": run.FinishedAt,
	})
}

func (s *Server) handleLatestRun(c *gin.Context) {
	run, err := s.repo.LatestRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNoRuns) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no runs recorded yet"})
			return
		}
		s.log.WithError(err).Error("Failed to load latest run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRunListLimit)))
	if err != nil || limit < 1 || limit > maxRunListLimit {
		limit = defaultRunListLimit
	}

	summaries, err := s.repo.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  summaries,
		"count": len(summaries),
	})
}
