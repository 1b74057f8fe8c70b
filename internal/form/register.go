package form

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Register is the shape of the registration form.
type Register struct {
	FirstName string `form:"firstname" binding:"required,max=60"`
	LastName  string `form:"lastname" binding:"required,max=60"`
	Email     string `form:"email" binding:"required,email,max=100"`
	Password  string `form:"password" binding:"required,min=6,bcryptlen"`
}

// bcryptMaxBytes is the longest input bcrypt accepts. The limit is in bytes,
// so multi-byte characters count more than once.
const bcryptMaxBytes = 72

// RegisterValidations installs the custom tags used by the form shapes.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	}); err != nil {
		return fmt.Errorf("register bcryptlen: %w", err)
	}
	return nil
}

// FieldErrors maps a form field name to a message for display next to it.
type FieldErrors map[string]string

// Errors turns a binding error into per-field messages. Errors that are not
// validation failures land under the empty key.
func Errors(err error, shape any) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[""] = err.Error()
		return out
	}

	for _, fe := range verrs {
		name := fieldName(shape, fe.StructField())
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = message(fe)
	}
	return out
}

func fieldName(shape any, structField string) string {
	t := reflect.TypeOf(shape)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(structField); ok {
			if tag := f.Tag.Get("form"); tag != "" {
				return tag
			}
		}
	}
	return structField
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("Must be at most %d bytes long.", bcryptMaxBytes)
	default:
		return "Invalid value."
	}
}
