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
	"github.com/rs/zerolog"

	"github.com/yigit/uniportal/internal/bootstrap"
	"github.com/yigit/uniportal/internal/config"
	"github.com/yigit/uniportal/internal/pkg/authapi"
	"github.com/yigit/uniportal/internal/pkg/helpers"
)

// Server holds the state for the HTTP server.
type Server struct {
	config     *config.Config
	router     *gin.Engine
	authClient *authapi.Client
	logger     zerolog.Logger
	http       *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		deps.AuthClient.Close()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return &Server{
		config:     cfg,
		router:     router,
		authClient: deps.AuthClient,
		logger:     lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration(s.config.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: helpers.ParseDuration(s.config.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeAuthClient()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := helpers.ParseDuration(s.config.Server.ShutdownTimeout, 10*time.Second)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	s.closeAuthClient()

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}

func (s *Server) closeAuthClient() {
	if s.authClient != nil {
		s.authClient.Close()
		s.logger.Info().Msg("Auth backend client connections closed.")
	}
}
