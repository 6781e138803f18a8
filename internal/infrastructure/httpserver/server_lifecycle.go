package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
}

// Start blocks serving HTTP, or HTTPS when both TLS files are configured. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logMetricsInitialization()

	addr := s.Addr()
	log := s.logger.WithFields(logrus.Fields{"addr": addr, "app": s.config.AppName, "version": s.config.Version})

	if s.config.TLSCertFile != "" && s.config.TLSKeyFile != "" {
		log.Info("Starting HTTPS server")
		return s.echo.StartTLS(addr, s.config.TLSCertFile, s.config.TLSKeyFile)
	}

	log.Info("Starting HTTP server")
	log.Warn("Running in HTTP mode - TLS certificates not configured")
	return s.echo.StartServer(&http.Server{
		Addr:         addr,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	})
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("Draining HTTP connections")
	}
	return s.echo.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
