package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ApiError carries an HTTP status alongside the message so services can
// signal the response code without importing fiber.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(status int, message string) *ApiError {
	return &ApiError{Status: status, Message: message}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// 400 ApiError listing the offending fields.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return NewApiError(fiber.StatusBadRequest, err.Error())
	}

	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return NewApiError(fiber.StatusBadRequest, "validation failed: "+strings.Join(fields, ", "))
}

// ErrorHandlerMiddleware converts returned errors into the standard JSON
// envelope with the right status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var apiErr *ApiError
		var fiberErr *fiber.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		} else if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		return c.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
