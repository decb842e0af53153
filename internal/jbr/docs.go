package jbr

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

//go:embed openapi.json
var openAPISpec []byte

// registerDocs mounts the hand-written OpenAPI document and a swagger-ui
// frontend for it, pointed at that document rather than a swag-generated one.
func (s *Server) registerDocs() {
	s.app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(openAPISpec)
	})
	s.app.Get("/swagger/*", swagger.New(swagger.Config{URL: "/openapi.json"}))
}
