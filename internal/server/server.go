package server

import (
	"context"
	"log"

	"ai-hub-be/internal/bootstrap"
	"ai-hub-be/internal/config"
	"ai-hub-be/internal/pkg/serverutils"
	ws "ai-hub-be/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// Knowledge files travel base64-encoded in JSON bodies.
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run(ctx context.Context) error {
	go s.container.WebSocketHub.Run(ctx)

	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	c.KnowledgeController.RegisterPublicRoutes(api)

	if cfg.Keys.JwtSecret != "" {
		api.Use(serverutils.NewJwtMiddleware(cfg.Keys.JwtSecret))
	}

	c.KnowledgeController.RegisterRoutes(api)
	c.StateController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.AttachmentController.RegisterRoutes(api)
	c.DeletionController.RegisterRoutes(api)

	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		subject := conn.Query("subject", "anonymous")
		ws.ServeWs(c.WebSocketHub, conn, subject)
	}))
}
