package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanClock reports when the scanner last completed a cycle.
type ScanClock interface {
	LastCycle() time.Time
}

// Server is the operations endpoint: liveness of the scan loop and metrics.
type Server struct {
	engine   *gin.Engine
	srv      *http.Server
	clock    ScanClock
	staleAge time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// New builds the ops server. The health check fails once no scan cycle has
// completed for staleAge.
func New(addr string, clock ScanClock, gatherer prometheus.Gatherer, staleAge time.Duration, logger *slog.Logger) *Server {
	engine := gin.New()
	s := &Server{
		engine:   engine,
		srv:      &http.Server{Addr: addr, Handler: engine, ReadHeaderTimeout: 5 * time.Second},
		clock:    clock,
		staleAge: staleAge,
		now:      time.Now,
		logger:   logger,
	}

	engine.Use(gin.Recovery(), s.accessLog())
	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🌐 Serveur d'exploitation démarré", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	last := s.clock.LastCycle()
	if last.IsZero() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	age := s.now().Sub(last)
	body := gin.H{"last_scan": last.UTC().Format(time.RFC3339), "age_seconds": int(age.Seconds())}
	if age > s.staleAge {
		body["status"] = "stale"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ok"
	c.JSON(http.StatusOK, body)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	}
}
