package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// sqlStatementValidator rejects statements that are empty once surrounding
// whitespace is removed.
func sqlStatementValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return strings.TrimSpace(val) != ""
}
