// Package server assembles the HTTP API: middleware, static uploads, health
// and the catalog and order routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hannas-kitchen/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes is implemented by the service handlers mounted under /api.
type Routes interface {
	Register(r gin.IRouter)
}

// Options configures the router.
type Options struct {
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	Store      Pinger
	API        []Routes
}

// NewRouter builds the gin engine serving the API.
func NewRouter(opts Options, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 16 << 20

	r.Use(gin.Recovery())
	r.Use(withLogging(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	r.GET("/health", healthCheck(opts.Store))

	api := r.Group("/api")
	for _, routes := range opts.API {
		routes.Register(api)
	}
	return r
}

func healthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		healthy := store == nil || store.Ping(ctx) == nil
		response := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "api-server",
			"healthy":   healthy,
		}
		if !healthy {
			response["status"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

// withLogging logs request start and completion and stores a request id on the context.
func withLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := logger.GenerateRequestID()
		c.Set(logger.RequestIDKey, requestID)

		path := c.Request.URL.Path
		log.Debug("request_started",
			fmt.Sprintf("%s %s", c.Request.Method, path),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        path,
				"remote_addr": c.Request.RemoteAddr,
				"user_agent":  c.Request.UserAgent(),
			})

		c.Next()

		status := c.Writer.Status()
		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", c.Request.Method, path, status),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        path,
				"status_code": status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

// Run serves handler on port until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, port int, handler http.Handler, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service_started", fmt.Sprintf("API server started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", "Shutting down API server", requestID, nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
