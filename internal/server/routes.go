package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zipnivasa/realtime/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	authn := middleware.Auth(s.verifier)
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/ws", s.gateway.Handler, authn)

	api := s.E.Group("/api/chat", authn)
	api.POST("/send", s.chatHandler.Send, rateLimiter)
	api.GET("/history/:userID", s.chatHandler.History)
	api.GET("/conversations", s.chatHandler.Conversations)
	api.POST("/mark-read", s.chatHandler.MarkRead, rateLimiter)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
