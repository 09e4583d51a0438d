package routes

import (
	"errors"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/transit"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var busTimeClient *bustime.Client
var validate = validator.New()

// Setup wires the upstream client used by every handler in this package.
func Setup(client *bustime.Client) {
	busTimeClient = client
}

var categoryStatus = map[transit.ErrorCategory]int{
	transit.CategoryValidation:          fiber.StatusBadRequest,
	transit.CategoryNotFound:            fiber.StatusNotFound,
	transit.CategoryRateLimited:         fiber.StatusTooManyRequests,
	transit.CategoryUpstreamUnavailable: fiber.StatusBadGateway,
	transit.CategoryUpstreamDataShape:   fiber.StatusBadGateway,
}

// renderError maps the error taxonomy onto HTTP statuses. Only our own
// message text goes out, never upstream response bodies.
func renderError(c *fiber.Ctx, err error) error {
	category := transit.CategoryOf(err)

	status, known := categoryStatus[category]
	if !known {
		status = fiber.StatusInternalServerError
	}

	message := "something went wrong"
	var transitError *transit.Error
	if errors.As(err, &transitError) {
		message = transitError.Message
	}

	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"code":  category,
		"error": message,
	})
}

func validationError(c *fiber.Ctx, message string) error {
	return renderError(c, transit.NewError(transit.CategoryValidation, message))
}
