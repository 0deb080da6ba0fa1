package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator - в сообщениях об ошибках используются имена полей из json-тегов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct превращает первую ошибку валидатора в ValidationError
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newValidationError(err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return newValidationError(fmt.Sprintf("%s is required", fe.Field()))
	case "max":
		return newValidationError(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "email":
		return newValidationError(fmt.Sprintf("%s must be a valid email", fe.Field()))
	default:
		return newValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
