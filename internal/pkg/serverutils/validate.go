package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest parses the JSON body into req and runs struct validation.
// Returns a fiber error with a readable field list on failure.
func ValidateRequest(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			invalid := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fiber.NewError(fiber.StatusBadRequest,
				"Validation failed: "+strings.Join(invalid, ", "))
		}
		return fiber.NewError(fiber.StatusBadRequest, "Validation failed")
	}

	return nil
}
