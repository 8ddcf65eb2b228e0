// Package storefront contains the JSON API handlers consumed by the booking
// front end. Handlers stay thin: decode, validate, call a service, respond.
package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/telemetry"
)

// validate is the shared validator instance. Struct tag validation only; no
// handler registers custom rules.
var validate = validator.New(validator.WithRequiredStructEnabled())

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps an error to its HTTP status and writes the standard
// error envelope. Field-level validation failures carry a fields map;
// everything else carries code and message. Server faults are logged and
// reported; client faults are only logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.GetValidationFields(err); fields != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    domain.EINVALID,
				"message": "Please correct the highlighted fields.",
				"fields":  fields,
			},
		})
		return
	}

	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	evt := logger.Info()
	if status >= 500 {
		evt = logger.Error()
		telemetry.CaptureError(err)
	}
	evt.Err(err).
		Str("code", code).
		Str("op", domain.ErrorOp(err)).
		Int("status", status).
		Msg("request failed")

	respondJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Errorf(domain.ETOOLARGE, "", "Request body too large")
		}
		return domain.Invalid("", "Invalid request body")
	}
	return nil
}

// checkStruct runs tag validation on a decoded request and converts the
// failures into a field-keyed ValidationError.
func checkStruct(op string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return domain.Internal(err, op, "Validation failed")
	}

	ve := &domain.ValidationError{Op: op, Fields: map[string]string{}}
	for _, f := range invalid {
		ve.Fields[fieldName(f)] = fieldMessage(f)
	}
	return ve
}

// fieldName derives the JSON-ish field name from the struct field.
func fieldName(f validator.FieldError) string {
	return strings.ToLower(f.Field())
}

// fieldMessage renders a short human message per failed rule.
func fieldMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Too short (minimum " + f.Param() + ")"
	case "max":
		return "Too long (maximum " + f.Param() + ")"
	case "gte":
		return "Must be at least " + f.Param()
	case "e164":
		return "Must be a valid phone number"
	default:
		return "Invalid value"
	}
}
