package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxEmailLength caps login keys at the RFC 5321 path limit.
const MaxEmailLength = 254

// SanitizeEmail trims surrounding whitespace; returns empty if over the
// length cap. Emails are matched case-sensitively, so no case folding here.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(email)
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// fieldError is one entry of the structured validation failure list.
type fieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// writeValidationErr sends a 422 with one entry per offending field.
func writeValidationErr(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make([]fieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fieldError{
			Location: strings.ToLower(fe.Field()),
			Message:  "failed on the '" + fe.Tag() + "' rule",
			Type:     fe.Tag(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "validation failed",
		"code":   ErrCodeValidationFailed,
		"fields": fields,
	})
}
