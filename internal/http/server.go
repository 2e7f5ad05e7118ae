// Package http contiene el server, los middlewares y los helpers de
// respuesta del API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

// Server envuelve http.Server con apagado ordenado.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start atiende hasta que el listener falle o se llame Shutdown.
func (s *Server) Start() error {
	logger.L().Info("http server listening", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drena conexiones en curso.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
