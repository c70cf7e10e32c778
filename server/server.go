// Package server exposes a running particle field over HTTP: the latest
// frame as SVG, field statistics, and endpoints that feed pointer and resize
// events into the engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pthm-cable/constellation/engine"
	"github.com/pthm-cable/constellation/platform"
	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/telemetry"
)

// Options wires a server to a running field. The engine must have been
// created with Loop as its scheduler, Surface as its surface and the two
// hubs as its notifiers.
type Options struct {
	Engine   *engine.Engine
	Loop     *platform.Loop
	Surface  *renderer.SVGSurface
	Pointer  *platform.PointerHub
	Resize   *platform.ResizeHub
	Recorder *telemetry.Recorder // optional
}

// Server is the HTTP preview server.
type Server struct {
	opts   Options
	router *gin.Engine
}

// Stats is the body of GET /api/stats.
type Stats struct {
	Tick          int64                `json:"tick"`
	Particles     int                  `json:"particles"`
	Connections   int                  `json:"connections"`
	PointerActive bool                 `json:"pointer_active"`
	Paused        bool                 `json:"paused"`
	Width         float32              `json:"width"`
	Height        float32              `json:"height"`
	Speed         telemetry.SpeedStats `json:"speed"`
}

type pointerRequest struct {
	X *float32 `json:"x" binding:"required"`
	Y *float32 `json:"y" binding:"required"`
}

type resizeRequest struct {
	Width  *float32 `json:"width" binding:"required"`
	Height *float32 `json:"height" binding:"required"`
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	s := &Server{opts: opts, router: gin.New()}
	s.router.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/frame.svg", s.handleFrame)

	api := s.router.Group("/api")
	api.GET("/stats", s.handleStats)
	api.GET("/window", s.handleWindow)
	api.POST("/pointer", s.handlePointerMove)
	api.DELETE("/pointer", s.handlePointerLeave)
	api.POST("/resize", s.handleResize)
}

func (s *Server) handleFrame(c *gin.Context) {
	frame := s.opts.Surface.Snapshot()
	if frame == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", frame)
}

func (s *Server) handleStats(c *gin.Context) {
	var stats Stats
	err := s.onLoop(c, func() {
		f := s.opts.Engine.LastFrame()
		stats = Stats{
			Tick:          f.Tick,
			Particles:     s.opts.Engine.Store().Len(),
			Connections:   f.Connections,
			PointerActive: s.opts.Engine.Input().Pointer().Active,
			Paused:        s.opts.Engine.Paused(),
			Width:         s.opts.Engine.Input().Bounds().Width,
			Height:        s.opts.Engine.Input().Bounds().Height,
			Speed:         telemetry.ComputeSpeedStats(s.opts.Engine.Store().Speeds(nil)),
		}
	})
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleWindow(c *gin.Context) {
	if s.opts.Recorder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "telemetry disabled"})
		return
	}
	var (
		last telemetry.WindowStats
		ok   bool
	)
	if err := s.onLoop(c, func() { last, ok = s.opts.Recorder.Last() }); err != nil {
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no window completed yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}

func (s *Server) handlePointerMove(c *gin.Context) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.onLoop(c, func() { s.opts.Pointer.Move(*req.X, *req.Y) }); err != nil {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePointerLeave(c *gin.Context) {
	if err := s.onLoop(c, s.opts.Pointer.Leave); err != nil {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleResize(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Width < 0 || *req.Height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must not be negative"})
		return
	}

	err := s.onLoop(c, func() {
		s.opts.Surface.SetSize(*req.Width, *req.Height)
		s.opts.Resize.Emit(*req.Width, *req.Height)
	})
	if err != nil {
		return
	}
	c.Status(http.StatusNoContent)
}

// onLoop runs fn on the loop goroutine and writes a 503 if the loop is gone.
func (s *Server) onLoop(c *gin.Context, fn func()) error {
	err := s.opts.Loop.Call(c.Request.Context(), fn)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
	return err
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// requestLogger logs each request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_us", time.Since(start).Microseconds(),
		)
	}
}
