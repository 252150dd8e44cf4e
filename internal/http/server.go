// Package http provides the public HTTP server: routing, middleware, and
// lifecycle for the certificate issuance API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	certHTTP "github.com/ndn-testbed/ndncert/internal/cert/http"
	"github.com/ndn-testbed/ndncert/internal/config"
	"github.com/ndn-testbed/ndncert/internal/metrics"
	operatorHTTP "github.com/ndn-testbed/ndncert/internal/operator/http"
)

// Handlers bundles the endpoint handlers the server routes to.
type Handlers struct {
	Token    *certHTTP.TokenHandler
	Request  *certHTTP.RequestHandler
	Cert     *certHTTP.CertHandler
	Operator *operatorHTTP.OperatorHandler
}

// Server is the public API server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with routing and middleware configured.
// The database handle is only used by the readiness probe; metricsProvider
// may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	metricsProvider *metrics.Provider,
	handlers Handlers,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(db))

	v1 := router.Group("/v1")
	{
		tokens := v1.Group("/tokens")
		if cfg.RateLimitTokenEnabled {
			tokens.Use(certHTTP.TokenRateLimitMiddleware(
				cfg.RateLimitTokenRequestsPerSec,
				cfg.RateLimitTokenBurst,
				logger,
			))
		}
		tokens.POST("", handlers.Token.RequestTokenHandler)

		v1.POST("/requests", handlers.Request.SubmitHandler)
		v1.POST("/requests/list", handlers.Request.ListHandler)
		v1.POST("/requests/:id/decision", handlers.Request.DecideHandler)

		v1.GET("/certs", handlers.Cert.GetHandler)
		v1.GET("/certs/list", handlers.Cert.ListHandler)

		v1.GET("/guest-sites", handlers.Operator.ListGuestSitesHandler)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
