package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/zipnivasa/realtime/internal/auth"
	"github.com/zipnivasa/realtime/internal/chat"
	"github.com/zipnivasa/realtime/internal/config"
	"github.com/zipnivasa/realtime/internal/database"
	"github.com/zipnivasa/realtime/internal/gateway"
	"github.com/zipnivasa/realtime/internal/logging"
	"github.com/zipnivasa/realtime/internal/middleware"
	"github.com/zipnivasa/realtime/internal/presence"
	"github.com/zipnivasa/realtime/internal/pubsub"
	"github.com/zipnivasa/realtime/internal/relay"

	"github.com/surrealdb/surrealdb.go"
)

// Server holds the dependencies for the realtime service.
type Server struct {
	E        *echo.Echo
	DB       *surrealdb.DB
	Cfg      *config.Config
	PubSub   *pubsub.Bus
	Registry *presence.Registry
	Hub      *relay.Hub

	verifier    *auth.Verifier
	chatHandler *chat.Handler
	gateway     *gateway.Gateway
}

// CustomValidator wraps the go-playground/validator library to implement
// Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new Server instance with the full pipeline wired: database,
// message bus, presence registry, relay hub, chat service and the websocket
// gateway.
func New() *Server {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		slog.Error("Failed to initialize token verifier", "error", err)
		os.Exit(1)
	}

	bus := pubsub.NewBus()
	registry := presence.NewRegistry()
	hub := relay.NewHub(bus, bus, registry)

	messageStore := database.NewSurrealMessageStore(db)
	directory := database.NewSurrealUserDirectory(db)
	chatService := chat.NewService(messageStore, directory, hub)

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	return &Server{
		E:           e,
		DB:          db,
		Cfg:         cfg,
		PubSub:      bus,
		Registry:    registry,
		Hub:         hub,
		verifier:    verifier,
		chatHandler: chat.NewHandler(chatService),
		gateway:     gateway.New(registry, chatService, hub, cfg.WSOrigins),
	}
}
