package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive,
// and makes error messages use the flag label instead of the Go field name.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive",
	); err != nil {
		return fmt.Errorf("registering validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(labelFor)

	return nil
}

func labelFor(fld reflect.StructField) string {
	const splitSize = 2

	name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
	if name == "-" || name == "" {
		return fld.Name
	}

	return name
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields are set.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	return field.IsZero() || otherField.IsZero()
}
