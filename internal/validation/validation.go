package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every validation failure returned from this package.
var ErrInvalid = errors.New("validation failed")

// Error carries per-field messages keyed by the field's JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalid.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Field builds a single-field validation error.
func Field(name, message string) error {
	return &Error{Fields: map[string]string{name: message}}
}

// Validator wraps go-playground/validator and reports failures as *Error.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s using its `validate` tags.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}

// Fields extracts per-field messages from err, or nil if err is not a validation error.
func Fields(err error) map[string]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
