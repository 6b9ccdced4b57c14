// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/updoot/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateRegister checks a registration request. It returns nil when the
// request is valid.
func ValidateRegister(req models.RegisterRequest) []models.FieldError {
	return fieldErrors(validate.Struct(req))
}

// ValidatePassword checks a standalone password, reporting problems under
// the given field name.
func ValidatePassword(password, field string) *models.FieldError {
	err := validate.Var(password, "min="+strconv.Itoa(models.MinPasswordLength))
	if err == nil {
		return nil
	}
	return &models.FieldError{
		Field:   field,
		Message: lengthMessage(models.MinPasswordLength),
	}
}

// ValidatePost checks the title and text of a post.
func ValidatePost(in models.PostInput) []models.FieldError {
	return fieldErrors(validate.Struct(in))
}

func fieldErrors(err error) []models.FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "unknown", Message: err.Error()}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email address"
	case "min":
		n, _ := strconv.Atoi(fe.Param())
		return lengthMessage(n)
	case "max":
		return "Length must be at most " + fe.Param()
	}
	return fmt.Sprintf("Failed %s validation", fe.Tag())
}

func lengthMessage(n int) string {
	return fmt.Sprintf("Length must be greater than %d", n-1)
}
