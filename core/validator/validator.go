package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"slot-swapper/core/controller"

	playground "github.com/go-playground/validator/v10"
)

type ValidationResult struct {
	Errors  []controller.ValidationError `json:"errors"`
	missing bool
}

func (r *ValidationResult) HasError() bool {
	return r != nil && len(r.Errors) > 0
}

// Missing reports whether a required field was absent.
func (r *ValidationResult) Missing() bool {
	return r != nil && r.missing
}

func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

var (
	once     sync.Once
	validate *playground.Validate
)

func instance() *playground.Validate {
	once.Do(func() {
		validate = playground.New(playground.WithRequiredStructEnabled())
		// report json names so clients see the fields they sent
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// Struct runs the `validate` tags of s.
func Struct(s any) *ValidationResult {
	result := &ValidationResult{}

	err := instance().Struct(s)
	if err == nil {
		return result
	}

	validationErrors, ok := err.(playground.ValidationErrors)
	if !ok {
		result.Add("", err.Error())
		return result
	}

	for _, fe := range validationErrors {
		if fe.Tag() == "required" {
			result.missing = true
		}
		result.Add(fe.Field(), message(fe))
	}
	return result
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid id"
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
