package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"spruchapi/internal/http/middleware"
	"spruchapi/internal/service"
)

// successPayload wraps every successful response.
type successPayload struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeData writes {"success":true,"data":data} with status.
func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(successPayload{Success: true, Data: data})
}

// writeRandom is writeData that keeps "data": null for an empty store.
func writeRandom(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": data})
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "STORAGE_UNAVAILABLE")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		Success:   false,
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service sentinel errors to status and code. Only validation
// messages reach the client; storage failures are logged with the request id.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "validation failed")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "quote not found")
	case errors.Is(err, service.ErrStorageUnavailable):
		slog.ErrorContext(c.UserContext(), "storage_error",
			slog.String("request_id", requestIDFromCtx(c)),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", "storage unavailable")
	default:
		slog.ErrorContext(c.UserContext(), "internal_error",
			slog.String("request_id", requestIDFromCtx(c)),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			if status >= fiber.StatusInternalServerError {
				slog.ErrorContext(c.UserContext(), "unhandled_error",
					slog.String("request_id", requestIDFromCtx(c)),
					slog.String("error", err.Error()))
				return writeError(c, status, "INTERNAL_ERROR", "internal server error")
			}
			return writeError(c, status, "REQUEST_ERROR", fiberErr.Message)
		}
	}
}
