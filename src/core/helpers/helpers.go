package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Initialize a validator instance using go-playground's validator package
var Validator = validator.New()

// Validate checks the struct fields against the specified validation tags.
func Validate(val interface{}) error {
	return Validator.Struct(val)
}

// HandleSuccess sends a structured JSON response for successful requests.
func HandleSuccess(context *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"error":   nil,
		"data":    data,
	})
}

// HandleError sends a structured JSON response for errors.
func HandleError(context *fiber.Ctx, statusCode int, message string, err error) error {
	var detail interface{}
	if err != nil {
		detail = err.Error()
	}
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   detail,
		"data":    nil,
	})
}

// HandleValidationError sends a 400 response carrying per-field messages, the
// equivalent of redisplaying a form with its errors attached.
func HandleValidationError(context *fiber.Ctx, message string, err error) error {
	return HandleFieldErrors(context, message, err.Error(), FieldErrors(err))
}

// HandleFieldErrors sends a 400 response with a ready field -> message map,
// for failures found outside the validator (duplicate username and the like).
func HandleFieldErrors(context *fiber.Ctx, message, detail string, fields map[string]string) error {
	return context.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   detail,
		"fields":  fields,
		"data":    nil,
	})
}

// FieldErrors flattens validator errors into a field -> message map.
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on the %q rule", fe.Tag())
		}
	}
	return fields
}
