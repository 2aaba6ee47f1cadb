// Package validator valida los DTO de entrada con las etiquetas `validate:`.
// Los errores envuelven domain.ErrInvalidInput y usan el nombre JSON del campo.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/salestrack-api/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct valida s y devuelve el primer error de campo legible.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("invalid validation target: %w", err)
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, message(fieldErrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("el campo '%s' es obligatorio", field)
	case "email":
		return fmt.Sprintf("el campo '%s' debe ser un email válido", field)
	case "min":
		return fmt.Sprintf("el campo '%s' debe tener al menos %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("el campo '%s' debe tener como máximo %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("el campo '%s' debe ser uno de: %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("el campo '%s' debe ser mayor que %s", field, fe.Param())
	default:
		return fmt.Sprintf("el campo '%s' no es válido (%s)", field, fe.Tag())
	}
}
