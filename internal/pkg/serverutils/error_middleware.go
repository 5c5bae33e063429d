package serverutils

import (
	"errors"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors bubbling out of handlers to HTTP
// statuses. Anything unmapped is logged and answered with a generic 500 so
// internals never leak.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ErrorResponse(ctx, fiberErr.Code, fiberErr.Message)
		}

		switch {
		case dto.IsScopeDenied(err):
			return ErrorResponse(ctx, fiber.StatusForbidden, err.Error())
		case errors.Is(err, dto.ErrUnknownRole):
			return ErrorResponse(ctx, fiber.StatusForbidden, "Unknown role")
		case errors.Is(err, dto.ErrSessionNotFound):
			return ErrorResponse(ctx, fiber.StatusNotFound, "Session not found")
		case errors.Is(err, dto.ErrRecordNotFound):
			return ErrorResponse(ctx, fiber.StatusNotFound, "Record not found")
		case errors.Is(err, dto.ErrBackendTimeout):
			return ErrorResponse(ctx, fiber.StatusGatewayTimeout, "Generation backend timed out")
		case errors.Is(err, dto.ErrBackendUnavailable), errors.Is(err, dto.ErrIndexUnavailable):
			return ErrorResponse(ctx, fiber.StatusServiceUnavailable, "Service temporarily unavailable")
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"error": err.Error(),
			"path":  ctx.Path(),
		})
		return ErrorResponse(ctx, fiber.StatusInternalServerError, "Internal server error")
	}
}
