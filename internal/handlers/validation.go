package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BradenHooton/sitebase/internal/models"
	pkgauth "github.com/BradenHooton/sitebase/pkg/auth"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/go-playground/validator/v10"
)

// maxJSONBodyBytes caps JSON request bodies
const maxJSONBodyBytes = 1 << 20

// ValidateRequest validates a request struct with the shared validator.
// The first failing field is returned as a *models.ValidationError.
func ValidateRequest(req any) error {
	err := models.Validator().Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return models.NewValidationError(ve[0].Field(), formatValidationError(ve[0]))
	}
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "slug":
		return "may only contain lowercase letters, digits and hyphens"
	case "robots":
		return "must be a known robots directive"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// decodeJSON reads a single JSON object from the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// checkPassword applies the back-office password policy to a non-empty password
func checkPassword(password string) error {
	if password == "" {
		return nil
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return models.NewValidationError("password", err.Error())
	}
	return nil
}

// writeDecodeError reports a body that could not be decoded
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		pkghttp.WriteRequestTooLarge(w, "Request body too large")
		return
	}
	pkghttp.WriteBadRequest(w, "Invalid request body")
}
