// Package handlers implements the JSON API over the featreq core. The
// handlers parse requests, call core operations, and translate typed
// errors to HTTP statuses; no business rules live here.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"featreq/internal/featreq"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// coreError translates a core error into an HTTP response.
func coreError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, featreq.ErrMissingField),
		errors.Is(err, featreq.ErrInvalidType),
		errors.Is(err, featreq.ErrInvalidID),
		errors.Is(err, featreq.ErrInvalidProductArea),
		errors.Is(err, featreq.ErrInvalidStatus),
		errors.Is(err, featreq.ErrInvalidReason),
		errors.Is(err, featreq.ErrInvalidPriority),
		errors.Is(err, featreq.ErrInvalidTargetDate):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, featreq.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, featreq.ErrConflict):
		return jsonError(c, fiber.StatusConflict, err.Error())
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}
