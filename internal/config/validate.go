package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their flag names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notnan", func(fl validator.FieldLevel) bool {
			return !math.IsNaN(fl.Field().Float())
		})
	})
	return validate
}

// FieldError describes one invalid setting.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid setting found by Validate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("--%s: %s", f.Field, f.Message)
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks cfg against its struct tags. A non-nil result is always a
// *ValidationError unless the validator itself failed.
func (c Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, e := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: formatValidationError(e)})
	}
	return out
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for this backend"
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got: %v)", strings.ReplaceAll(e.Param(), " ", ", "), e.Value())
	case "notnan":
		return "must be a number"
	case "gte":
		return "must be >= " + e.Param()
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q check", e.Tag())
	}
}
