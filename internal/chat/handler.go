package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zipnivasa/realtime/internal/domain"
	"github.com/zipnivasa/realtime/internal/middleware"
)

// Handler exposes the chat service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new chat Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// identityFromContext retrieves the authenticated identity set by the Auth
// middleware.
func identityFromContext(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return identity, nil
}

// SendRequest is the DTO for POST /api/chat/send.
type SendRequest struct {
	Receiver string `json:"receiver" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// MarkReadRequest is the DTO for POST /api/chat/mark-read. The field name
// "partnerId" is what the existing frontend posts, so it is part of the
// compatibility contract.
type MarkReadRequest struct {
	Counterpart string `json:"partnerId" validate:"required"`
}

// Envelope is the standard response shape for the chat API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Send persists a message and relays it to any live session of either party.
func (h *Handler) Send(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.service.Send(ctx, identity.UserID, req.Receiver, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty.")
		}
		logger.Error("failed to send message", "receiver", req.Receiver, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message.")
	}

	return c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: "Message sent",
		Data:    msg,
	})
}

// History returns every message between the caller and the path user,
// oldest first.
func (h *Handler) History(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	otherID := c.Param("userID")
	if otherID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user ID.")
	}

	msgs, err := h.service.History(ctx, identity.UserID, otherID)
	if err != nil {
		logger.Error("failed to load chat history", "other", otherID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load history.")
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Chat history",
		Data:    msgs,
	})
}

// Conversations returns the caller's inbox summaries, newest activity first.
func (h *Handler) Conversations(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.Conversations(ctx, identity.UserID)
	if err != nil {
		logger.Error("failed to build conversations", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversations.")
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Conversations",
		Data:    summaries,
	})
}

// MarkRead stamps unread messages from a counterpart as read.
func (h *Handler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.MarkRead(ctx, identity.UserID, req.Counterpart); err != nil {
		logger.Error("failed to mark messages read", "counterpart", req.Counterpart, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark messages as read.")
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Messages marked as read",
	})
}
