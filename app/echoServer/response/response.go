package response

import "github.com/labstack/echo/v4"

// Success writes the {success, message, data} envelope.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error writes the {success, error, error_code} envelope.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{
		"success":    false,
		"error":      message,
		"error_code": code,
	})
}

// Validation writes a field-error map for malformed input.
func Validation(c echo.Context, fields map[string][]string) error {
	return c.JSON(422, echo.Map{
		"success":    false,
		"error":      "validation error",
		"error_code": "VALIDATION_ERROR",
		"errors":     fields,
	})
}
