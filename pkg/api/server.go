// Package api implements the HTTP surface of jsondump: the dump pipeline,
// the liveness probe, and the metrics endpoint.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jsondump/jsondump/pkg/config"
	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/jsondump/jsondump/pkg/metrics"
	"github.com/jsondump/jsondump/pkg/storage"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal before the listener is torn down.
const shutdownTimeout = 10 * time.Second

// Server wires the dump store and metrics collector into a gin router.
type Server struct {
	cfg       *config.Config
	store     *storage.Store
	collector *metrics.Collector
	logger    *logging.Logger
	router    *gin.Engine
}

// NewServer builds the router with all routes and middleware configured.
func NewServer(cfg *config.Config, store *storage.Store, collector *metrics.Collector, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		store:     store,
		collector: collector,
		logger:    logger,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	if cfg.EnableCORS {
		router.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	if len(cfg.TrustedProxies) > 0 {
		router.ForwardedByClientIP = true
		if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Error("unable to set trusted proxies", "error", err)
		}
	}

	router.POST("/dump", s.handleDump)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	s.router = router
	return s
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully so
// in-flight writes either commit fully or are aborted cleanly.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr, "maxPayload", s.cfg.MaxPayloadHuman())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request and feeds the duration histogram.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		s.collector.ObserveRequest(c.Request.Method, path, elapsed.Seconds())
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", elapsed,
		)
	}
}
