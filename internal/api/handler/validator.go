package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface, translating tag failures into the Vietnamese messages the
// portal shows to end users.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator used by the router.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures surface as 400 responses
// through the central error handler.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return echo.NewHTTPError(http.StatusBadRequest, "Dữ liệu không hợp lệ")
		}
		msgs := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			msgs = append(msgs, fieldMessage(fe))
		}
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s là bắt buộc", field)
	case "email":
		return fmt.Sprintf("%s không đúng định dạng email", field)
	case "min":
		return fmt.Sprintf("%s phải có ít nhất %s ký tự", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s phải lớn hơn %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s phải là một trong: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s không hợp lệ", field)
	}
}
