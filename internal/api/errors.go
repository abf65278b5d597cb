package api

import (
	"github.com/gofiber/fiber/v2"
)

// Error is the JSON shape of every non-validation API failure.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

func ErrBadRequest(msg string) Error {
	return Error{Code: fiber.StatusBadRequest, Message: msg}
}

func ErrNotFound(resource string) Error {
	return Error{Code: fiber.StatusNotFound, Message: resource + " not found"}
}

func ErrConflict(msg string) Error {
	return Error{Code: fiber.StatusConflict, Message: msg}
}

func ErrPayloadTooLarge(msg string) Error {
	return Error{Code: fiber.StatusRequestEntityTooLarge, Message: msg}
}

// ValidationError reports per-field failures from payload validation.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// ErrorHandler is the central fiber error handler; every handler error
// funnels through here and becomes a typed JSON response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case Error:
		return c.Status(e.Code).JSON(e)
	case ValidationError:
		return c.Status(e.Status).JSON(e)
	case *fiber.Error:
		return c.Status(e.Code).JSON(NewError(e.Code, e.Message))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, err.Error()))
	}
}
