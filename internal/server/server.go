// Package server exposes the suggestion pipeline over HTTP.
package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Veraticus/the-ledger-must-flow/internal/service"
	"github.com/Veraticus/the-ledger-must-flow/internal/suggest"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr string
}

// Server wires the suggestion pipeline into a Fiber application.
type Server struct {
	app          *fiber.App
	orchestrator *suggest.Orchestrator
	store        service.Storage
	logger       *slog.Logger
	addr         string
}

// New creates a server around the orchestrator and storage.
func New(cfg Config, orchestrator *suggest.Orchestrator, store service.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-User-ID",
	}))
	app.Use(fiberlogger.New())

	s := &Server{
		app:          app,
		orchestrator: orchestrator,
		store:        store,
		logger:       logger,
		addr:         cfg.Addr,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api/v1")
	api.Post("/suggestions", s.handleSuggestions)
	api.Post("/explanations", s.handleExplanations)
	api.Put("/transactions/:id/explanation", s.handleSaveExplanation)
	api.Get("/accounts", s.handleListAccounts)
}

// Listen serves HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying Fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
