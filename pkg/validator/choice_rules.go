package validator

import (
	"fmt"
	"slices"
	"strings"
)

// OneOf fails unless value is in allowed.
func OneOf[T ~string](field string, value T, allowed []T) Rule {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")),
			Code:    "one_of",
		},
	}
}
