package jbr

import "github.com/gofiber/fiber/v2"

// envelope is the shape of every JSON response the façade sends.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SendSuccess writes data wrapped in the standard success envelope.
func SendSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Status: "success", Data: data})
}

// SendError writes message wrapped in the standard error envelope.
func SendError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Status: "error", Message: message})
}
