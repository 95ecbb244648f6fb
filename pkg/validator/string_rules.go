package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required fails on empty or whitespace-only strings.
func Required[T ~string](field string, value T) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(string(value)) != "" },
		Error: ValidationError{Field: field, Message: "field is required", Code: "required"},
	}
}

// MaxLen counts runes, not bytes.
func MaxLen[T ~string](field string, value T, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(string(value)) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Code:    "max_length",
		},
	}
}
