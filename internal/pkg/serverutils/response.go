package serverutils

import "github.com/gofiber/fiber/v2"

// Envelope is the uniform JSON response shape.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(Envelope{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
	})
}
