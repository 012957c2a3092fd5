// Package http provides the HTTP server and route wiring.
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
	"github.com/google/uuid"

	auditHTTP "github.com/carebridgehq/chartgate/internal/audit/http"
	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	"github.com/carebridgehq/chartgate/internal/config"
	consentHTTP "github.com/carebridgehq/chartgate/internal/consent/http"
	disclosureHTTP "github.com/carebridgehq/chartgate/internal/disclosure/http"
)

// Server represents the main API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router must be configured with
// SetupRouter before Start is called.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the route table with all handlers and middleware.
//
// The token endpoint sits outside the authenticated group and is protected by
// an IP rate limiter instead. Everything under /v1 besides the token endpoint
// requires a valid bearer token; requests rejected by the authentication
// middleware never reach the disclosure pipeline.
func (s *Server) SetupRouter(
	cfg *config.Config,
	metricsMiddleware gin.HandlerFunc,
	authenticationMiddleware gin.HandlerFunc,
	tokenHandler *authHTTP.TokenHandler,
	disclosureHandler *disclosureHTTP.DisclosureHandler,
	consentHandler *consentHTTP.ConsentHandler,
	chainHandler *auditHTTP.ChainHandler,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	tokenGroup := v1.Group("/auth")
	if cfg.RateLimitTokenEnabled {
		tokenGroup.Use(authHTTP.TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokenGroup.POST("/token", tokenHandler.IssueTokenHandler)

	authenticated := v1.Group("")
	authenticated.Use(authenticationMiddleware)
	{
		authenticated.POST("/disclosures", disclosureHandler.DiscloseHandler)

		authenticated.POST("/consents", consentHandler.CreateHandler)
		authenticated.GET("/consents", consentHandler.ListByPatientHandler)
		authenticated.GET("/consents/:id", consentHandler.GetHandler)
		authenticated.POST("/consents/:id/revoke", consentHandler.RevokeHandler)

		authenticated.GET("/audit/entries", chainHandler.ListHandler)
		authenticated.GET("/audit/verify", chainHandler.VerifyHandler)
	}

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic.
// It pings the database since every endpoint depends on it.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil {
		components["database"] = "error"
	} else if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
	}

	if components["database"] != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
