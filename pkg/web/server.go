// Package web provides the one-shot shop detection HTTP API.
//
// Every request is an independent evaluation: there is no cadence or
// cooldown state on the server, the caption provider is simply invoked once
// per uploaded image. Detection results are additionally broadcast to
// websocket dashboard clients.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-shopwatch/internal/log"
	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/detect"
	"github.com/teslashibe/go-shopwatch/pkg/hub"
)

// Server is the detection API server.
type Server struct {
	app      *fiber.App
	addr     string
	provider caption.Provider
	keywords []string

	// Live detection feed for dashboard clients
	statusHub *hub.Hub
}

// NewServer creates the detection server. The provider should be constructed
// once at startup and reused; model load latency is a one-time startup cost.
func NewServer(addr string, provider caption.Provider, keywords []string) *Server {
	if len(keywords) == 0 {
		keywords = detect.DefaultKeywords
	}

	s := &Server{
		addr:      addr,
		provider:  provider,
		keywords:  keywords,
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Shopwatch API",
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
	})

	// CORS for local dashboard development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/detect", s.handleDetect)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Listen starts serving. Blocks.
func (s *Server) Listen() error {
	go s.statusHub.Run()
	log.Info("detection API listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
