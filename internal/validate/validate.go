// Package validate wraps go-playground/validator and converts its failures
// into a single apperror carrying every invalid field.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/snippet-manager/internal/apperror"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Struct validates s using its `validate` tags. On failure it returns an
// *apperror.AppError wrapping ErrValidation whose Fields lists every failing
// field in struct order. Field names are taken from the json tag.
//
// Messages are looked up in messages by "field.tag" and then by "field";
// a generic message is used when neither is present.
func Struct(s any, messages map[string]string) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe, messages),
		})
	}
	return apperror.Validation(fields...)
}

func message(fe validator.FieldError, messages map[string]string) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := messages[fe.Field()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if comma := strings.Index(name, ","); comma != -1 {
				name = name[:comma]
			}
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return instance
}
