package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks so a caller can report every problem
// in a config section or request at once. Checks chain:
//
//	err := validation.New().Range("port", p, 0, 65535).Min("capture", n, 0).Err()
type Validator struct {
	prefix string
	failed *[]FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{failed: new([]FieldError)}
}

// Section returns a Validator that records into v with field names
// prefixed by name, e.g. "server.port".
func (v *Validator) Section(name string) *Validator {
	return &Validator{prefix: v.field(name), failed: v.failed}
}

func (v *Validator) field(name string) string {
	if v.prefix == "" {
		return name
	}
	return v.prefix + "." + name
}

func (v *Validator) check(ok bool, field, format string, args ...any) *Validator {
	if !ok {
		v.AddError(field, fmt.Sprintf(format, args...))
	}
	return v
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	*v.failed = append(*v.failed, FieldError{Field: v.field(field), Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(*v.failed) > 0 }

// Errors returns the failures in the order they were recorded.
func (v *Validator) Errors() []FieldError { return *v.failed }

// Validate returns the failures as one INVALID_INPUT AppError with the
// individual fields under Details["fields"], or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return errors.Validation(Join(*v.failed)).WithDetail("fields", *v.failed)
}

// Err is Validate typed as error, so a clean Validator yields a true nil.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Required fails on an empty or blank string.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

// OptionalUUID fails on a non-empty string that is not a UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	_, err := uuid.Parse(value)
	return v.check(err == nil, field, "must be a valid UUID")
}

// Range fails unless minVal <= value <= maxVal.
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	return v.check(value >= minVal && value <= maxVal, field, "must be between %d and %d", minVal, maxVal)
}

// Between is Range for floats.
func (v *Validator) Between(field string, value, minVal, maxVal float64) *Validator {
	return v.check(value >= minVal && value <= maxVal, field, "must be between %g and %g", minVal, maxVal)
}

// Min fails when value < minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.check(value >= minVal, field, "must be at least %d", minVal)
}

// OneOf fails when a non-empty value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.check(false, field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Custom fails when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	return v.check(condition, field, "%s", message)
}
