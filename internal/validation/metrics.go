// Package validation checks inbound client-metrics payloads before they
// are handed to the evaluation client.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths with their JSON names so the 400 payload matches
	// what the caller actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationResult holds the outcome of a payload validation.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// NewValidationResult creates a passing result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError records a field error and marks the result invalid.
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	v.Errors[field] = message
}

// ValidateClientMetrics validates a client metrics payload against the
// ingestion schema. The payload itself is never mutated.
func ValidateClientMetrics(m *unleash.ClientMetrics) *ValidationResult {
	result := NewValidationResult()

	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			result.AddError("payload", err.Error())
			return result
		}
		for _, fe := range verrs {
			result.AddError(fieldPath(fe), messageFor(fe))
		}
		return result
	}

	// Bucket ordering is not expressible as a struct tag.
	if m.Bucket.Stop.Before(m.Bucket.Start) {
		result.AddError("bucket.stop", "Bucket stop must not precede bucket start")
	}

	return result
}

// fieldPath strips the root struct name from the error namespace, leaving
// the JSON path of the offending field (e.g. "bucket.start").
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	default:
		return "Invalid value"
	}
}
