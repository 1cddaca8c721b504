// Package validation проверяет входные структуры по validate-тегам
// и возвращает список ошибок по полям.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError описывает одну ошибку валидации конкретного поля.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

var validate = newValidator()

// Имена полей в ошибках берутся из json-тегов, чтобы клиент видел
// имена полей провода, а не Go-структуры.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate проверяет структуру по ее validate-тегам.
// Возвращает nil, если все ограничения выполнены.
func Validate(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "", Rule: "invalid"}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field: fieldErr.Field(),
			Rule:  fieldErr.Tag(),
			Param: fieldErr.Param(),
		})
	}
	return fieldErrors
}
