package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pennybook/backend/internal/apperrors"
)

// ValidationHelper validates decoded request structs and maps violations to
// field errors with dotted paths ("body.email", "params.id").
type ValidationHelper struct {
	validator *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	v := validator.New()

	// Report json field names instead of Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationHelper{validator: v}
}

// Validate checks s against its validate tags. On failure it returns a
// *apperrors.Error of kind Validation whose Details carry one entry per
// violated field, prefixed with the request facet the struct was decoded
// from ("body", "params" or "query").
func (vh *ValidationHelper) Validate(s any, facet string) error {
	err := vh.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Internal("Validation failed", err)
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Path:    facet + "." + fe.Field(),
			Message: violationMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return apperrors.Validation("Validation failed", fields...)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "hexadecimal":
		return fmt.Sprintf("%s must be hexadecimal", fe.Field())
	default:
		return fmt.Sprintf("Field validation failed on the '%s' tag", fe.Tag())
	}
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and oversized or multi-object bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body", apperrors.FieldError{
			Path: "body", Message: "Malformed JSON", Code: "invalid_json",
		})
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperrors.Validation("Invalid request body", apperrors.FieldError{
			Path: "body", Message: "Request body must only contain a single JSON object", Code: "invalid_json",
		})
	}

	return nil
}

// respondJSON writes v with the given status. A nil v (204-style responses)
// writes no body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
