package httpapi

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/pickups-dashboard/internal/common"
	"github.com/i474232898/pickups-dashboard/internal/dashboard"
)

// ErrorHandler is the centralized error response: an HTML error page for browsers,
// JSON for everything else.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if common.WantsHTML(c.Get(fiber.HeaderAccept)) {
		var buf bytes.Buffer
		if renderErr := dashboard.WriteHTML(&buf, nil, err, nil); renderErr == nil {
			c.Type("html", "utf-8")
			return c.Status(code).Send(buf.Bytes())
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
