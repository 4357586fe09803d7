package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Custom validation tags
const (
	tagTreeType = "treetype"
	tagNotBlank = "notblank"
)

// Validator checks request bodies against their validate tags
type Validator struct {
	validate *validator.Validate
}

var getValidator = sync.OnceValue(func() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so errors match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation(tagTreeType, func(fl validator.FieldLevel) bool {
		_, ok := domain.LookupTreeSpecies(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
})

// GetValidator returns the shared validator
func GetValidator() *Validator {
	return getValidator()
}

// ValidateStruct validates s using its tags
func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError maps each failing JSON field to a readable message
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		out[e.Field()] = validationMessage(e)
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", tagNotBlank:
		return "This field is required"
	case tagTreeType:
		names := make([]string, len(domain.TreeCatalog))
		for i, s := range domain.TreeCatalog {
			names[i] = string(s.Type)
		}
		return "Unknown tree type, expected one of " + strings.Join(names, ", ")
	case "url":
		return "Must be a valid URL"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", e.Param())
	default:
		return "Invalid value"
	}
}
