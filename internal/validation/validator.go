// Package validation implements the field-rule checker used by every
// domain service. A Validator accumulates one message per field across
// a sequence of rule calls; only the last message recorded for a field
// is kept.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// Validator collects named field errors. The zero value is not ready;
// use New. A single instance may be reused for several independent
// entities in one request by calling Clear between them.
type Validator struct {
	errors map[string]string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{errors: make(map[string]string)}
}

func (v *Validator) fail(field, message string) bool {
	v.errors[field] = message
	return false
}

func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// Required fails when value is empty. Numeric zero is considered
// present; only empty strings and nil are missing.
func (v *Validator) Required(field string, value any) bool {
	switch val := value.(type) {
	case nil:
		return v.fail(field, label(field)+" is required")
	case string:
		if val == "" {
			return v.fail(field, label(field)+" is required")
		}
	}
	return true
}

// RequiredMsg is Required with a custom failure message.
func (v *Validator) RequiredMsg(field string, value any, message string) bool {
	if v.Required(field, value) {
		return true
	}
	return v.fail(field, message)
}

// Email fails when value is non-empty and not a valid address.
func (v *Validator) Email(field, value string) bool {
	if value == "" {
		return true
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return v.fail(field, "Invalid email format")
	}
	return true
}

// MinLength fails when value is shorter than min characters.
func (v *Validator) MinLength(field, value string, min int) bool {
	if len(value) < min {
		return v.fail(field, fmt.Sprintf("%s must be at least %d characters", label(field), min))
	}
	return true
}

// MinLengthMsg is MinLength with a custom failure message.
func (v *Validator) MinLengthMsg(field, value string, min int, message string) bool {
	if len(value) < min {
		return v.fail(field, message)
	}
	return true
}

// MaxLength fails when value is longer than max characters.
func (v *Validator) MaxLength(field, value string, max int) bool {
	if len(value) > max {
		return v.fail(field, fmt.Sprintf("%s must not exceed %d characters", label(field), max))
	}
	return true
}

// Positive fails unless value > 0.
func (v *Validator) Positive(field string, value float64, message string) bool {
	if value <= 0 {
		if message == "" {
			message = label(field) + " must be a positive number"
		}
		return v.fail(field, message)
	}
	return true
}

// PositiveInt fails unless value > 0.
func (v *Validator) PositiveInt(field string, value int, message string) bool {
	if value <= 0 {
		if message == "" {
			message = label(field) + " must be a positive number"
		}
		return v.fail(field, message)
	}
	return true
}

// Min fails when value < min.
func (v *Validator) Min(field string, value, min float64, message string) bool {
	if value < min {
		if message == "" {
			message = fmt.Sprintf("%s must be at least %v", label(field), min)
		}
		return v.fail(field, message)
	}
	return true
}

// MinInt fails when value < min.
func (v *Validator) MinInt(field string, value, min int, message string) bool {
	if value < min {
		if message == "" {
			message = fmt.Sprintf("%s must be at least %d", label(field), min)
		}
		return v.fail(field, message)
	}
	return true
}

// Max fails when value > max.
func (v *Validator) Max(field string, value, max float64, message string) bool {
	if value > max {
		if message == "" {
			message = fmt.Sprintf("%s must not exceed %v", label(field), max)
		}
		return v.fail(field, message)
	}
	return true
}

// In fails unless value is one of allowed.
func (v *Validator) In(field, value string, allowed []string, message string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	if message == "" {
		message = fmt.Sprintf("%s must be one of: %s", label(field), strings.Join(allowed, ", "))
	}
	return v.fail(field, message)
}

// URL fails when value is non-empty and not an absolute URL.
func (v *Validator) URL(field, value, message string) bool {
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if message == "" {
			message = "Invalid URL format"
		}
		return v.fail(field, message)
	}
	return true
}

// Valid reports whether no rule has failed since the last Clear.
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the accumulated field→message map.
func (v *Validator) Errors() map[string]string {
	return v.errors
}

// FirstError returns one recorded message, or "" when valid. Map order
// is unspecified, so this is only useful for single-rule validations.
func (v *Validator) FirstError() string {
	for _, msg := range v.errors {
		return msg
	}
	return ""
}

// Clear resets state so the instance can be reused.
func (v *Validator) Clear() {
	v.errors = make(map[string]string)
}
