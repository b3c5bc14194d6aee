// Package validator wraps go-playground/validator behind a single shared
// instance, returning failures as a field-to-tag map for the error envelope.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct's validate tags. It returns nil when the value
// is valid, otherwise a map of field name to the tag that failed.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
