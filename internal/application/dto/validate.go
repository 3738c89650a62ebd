package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Los mensajes usan el nombre JSON del campo.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
			_, _, err := taxid.Validate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate valida las etiquetas `validate` de la estructura. Devuelve un error que envuelve
// domain.ErrInvalidInput con un mensaje legible por campo.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_without":
		return field + " es obligatorio"
	case "email":
		return field + " debe ser un email válido"
	case "uuid":
		return field + " debe ser un identificador válido"
	case "min", "gte":
		return fmt.Sprintf("%s debe ser como mínimo %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s debe ser como máximo %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "taxid":
		return field + " no es un CNPJ/CPF válido"
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}
