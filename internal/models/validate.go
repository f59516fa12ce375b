package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("robots", func(fl validator.FieldLevel) bool {
		return RobotsDirective(fl.Field().String()).Valid()
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})

	return v
}

// Validator returns the shared validator so request DTOs use the same custom tags
func Validator() *validator.Validate {
	return validate
}

// FullClean normalizes the user and then validates every field
func (u *User) FullClean() error {
	u.Clean()
	return validateStruct(u)
}

// FullClean validates the page and its embedded metadata
func (p *Page) FullClean() error {
	p.Slug = strings.TrimSpace(p.Slug)
	return validateStruct(p)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return NewValidationError(fe.Field(), describe(fe))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "robots":
		return "must be a known robots directive"
	case "slug":
		return "may only contain lowercase letters, digits and hyphens"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
