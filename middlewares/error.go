package middlewares

import (
	"errors"

	"billing-backend/invoicing"
	"billing-backend/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Invoicing errors map to their taxonomy status; anything unknown is a 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Fiber errors (use their status code + message)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		// 2) DTO validation errors (422 + per-field info)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				out[fe.Field()] = fe.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		// 3) Document field validation lists every offending field at once
		var fields *invoicing.ValidationError
		if errors.As(err, &fields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fields.Error(),
				"missing": fields.Missing,
				"invalid": fields.Invalid,
			})
		}

		status, message := statusOf(err)
		entry := log.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
		switch {
		case errors.Is(err, invoicing.ErrInconsistency):
			entry.WithError(err).Error("invoice numbering inconsistency")
		case status >= fiber.StatusInternalServerError:
			entry.WithError(err).Error("internal error")
		}
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, invoicing.ErrNotConfigured):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, invoicing.ErrInvalidArgument):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrUnsupportedType):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, invoicing.ErrCounterNotFound),
		errors.Is(err, invoicing.ErrDocumentNotFound),
		errors.Is(err, invoicing.ErrUnknownModule):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, invoicing.ErrCounterExhausted):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, invoicing.ErrConflict):
		return fiber.StatusConflict, "Duplicate invoice number. Retry the create request; do not increment the counter manually."
	case errors.Is(err, invoicing.ErrInconsistency):
		return fiber.StatusInternalServerError, "document state could not be confirmed; check the document list before retrying"
	case errors.Is(err, invoicing.ErrPersistence):
		return fiber.StatusInternalServerError, "could not save document, please retry"
	}
	return fiber.StatusInternalServerError, "internal server error"
}
