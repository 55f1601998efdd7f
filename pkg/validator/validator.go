// Package validator wraps go-playground struct validation with the
// reporting conventions of the service layer: failures are keyed by the
// field's json name so they can go back to clients unchanged.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field string // json name of the field
	Tag   string // the rule that failed, e.g. "required", "email"
	Param string // the rule's parameter, e.g. "255" for max=255
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// Key errors by the json tag so responses never leak Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "required" treats the zero UUID as present; uuid_required does not.
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct checks data against its validate tags and returns one
// FieldError per failed rule; a valid struct yields an empty slice.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
