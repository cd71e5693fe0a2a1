package validation

import (
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// NonNegativePrice parses a decimal string and rejects absent, unparseable or
// negative values. Returns the parsed value when valid.
func NonNegativePrice(field, value string, v Violations) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		v[field] = "required"
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v[field] = "not_a_number"
		return 0
	}
	if f < 0 {
		v[field] = "must_not_be_negative"
		return 0
	}
	return f
}

// OptionalFloat coerces an empty string to nil rather than a parse error.
// An unparseable non-empty value is also coerced to nil: only price is a
// client error in this form.
func OptionalFloat(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
