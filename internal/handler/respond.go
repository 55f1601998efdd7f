package handler

import (
	"errors"

	"go-stockledger/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError maps the typed error kinds onto HTTP statuses. Everything
// unrecognized is a 500; nothing in the core is fatal.
func respondError(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	var ie *apperr.IntegrityError

	switch {
	case errors.As(err, &ve):
		body := fiber.Map{"error": ve.Message}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error()})
	case errors.As(err, &ie):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ie.Error()})
	default:
		zap.L().Error("unhandled error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperr.Validation(param, "invalid id")
	}
	return id, nil
}
