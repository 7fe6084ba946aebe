package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/bootstrap"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/config"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/db"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
)

const tokenCleanupInterval = 12 * time.Hour

// Server owns the HTTP listener, the database pool and background jobs.
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *db.PostgresDB
	deps   *bootstrap.Dependencies
	http   *http.Server
}

// NewServer loads configuration, connects to the database, runs migrations
// and wires the full dependency graph.
func NewServer() (*Server, error) {
	cfg, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := bootstrap.SetupDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := bootstrap.BuildDependencies(cfg, database)
	router := bootstrap.SetupRouter(cfg, deps)

	return &Server{
		config: cfg,
		router: router,
		dbPool: database,
		deps:   deps,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Run starts the HTTP server and blocks until shutdown completes. It
// returns on listener failure or after a clean SIGINT/SIGTERM shutdown.
func (s *Server) Run() error {
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go s.cleanupExpiredTokens(cleanupCtx)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")
		serverErrors <- s.http.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			_ = s.http.Close()
			s.dbPool.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		s.dbPool.Close()
		logger.Info().Msg("Server stopped")
		return nil
	}
}

// cleanupExpiredTokens periodically removes expired refresh tokens.
func (s *Server) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deps.AuthService.CleanupExpiredTokens(ctx)
		}
	}
}
