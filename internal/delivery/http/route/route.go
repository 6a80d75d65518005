package route

import (
	"github.com/chaaaaae/TTOBA/internal/delivery/http/handler"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type RouteConfig struct {
	Api              *fiber.App
	Middleware       *middleware.Middleware
	InterviewHandler handler.InterviewHandler
	AnalysisHandler  handler.AnalysisHandler
	STTHandler       handler.STTHandler
	MediaDir         string
	MediaPrefix      string
}

func Setup(c *RouteConfig) {
	c.Api.Use(recover.New())
	c.Api.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
	}))
	c.Api.Use(c.Middleware.CorsMiddleware())

	c.Api.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": "pong"})
	})

	if c.MediaDir != "" {
		prefix := c.MediaPrefix
		if prefix == "" {
			prefix = "/media"
		}
		c.Api.Static(prefix, c.MediaDir)
	}

	SetupInterviewRoute(c.Api, c.InterviewHandler, c.AnalysisHandler, c.STTHandler, c.Middleware)
}
