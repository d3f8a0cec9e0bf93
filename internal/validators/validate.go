package validators

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

var validate = validator.New()

// Struct validates v by its `validate` tags and reports the first failing
// field as an httperr.ValidationError.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return httperr.ErrValidation(snakeCase(fe.Field()), codeForTag(fe.Tag()))
}

func codeForTag(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required"
	case "email":
		return "invalid_email"
	case "hexcolor":
		return "invalid_color"
	case "oneof":
		return "invalid_value"
	case "gt", "gte", "lt", "lte", "min", "max":
		return "out_of_range"
	default:
		return tag
	}
}

// snakeCase turns Go field names like EmployeeID into employee_id.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
