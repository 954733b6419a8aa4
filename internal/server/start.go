package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start attaches the relay hub to the bus and runs the HTTP server until an
// interrupt arrives, then shuts everything down in dependency order.
func (s *Server) Start() {
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()

	if err := s.Hub.Start(hubCtx); err != nil {
		slog.Error("Failed to start relay hub", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := s.E.Start(s.Cfg.Addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
	cancelHub()
	if err := s.PubSub.Close(); err != nil {
		slog.Error("Failed to close message bus", "error", err)
	}
	s.DB.Close(ctx)
}
