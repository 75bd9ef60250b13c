// Package validation wraps go-playground/validator with the tags and messages the API uses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const passwordSpecials = "@#$%^&+=!"

var (
	once     sync.Once
	instance *validator.Validate

	numericOnly = regexp.MustCompile(`^\d+$`)
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "notblank", notBlank)
		mustRegister(v, "notnumeric", notNumeric)
		mustRegister(v, "password", strongPassword)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

func notNumeric(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return !numericOnly.MatchString(strings.TrimSpace(field.String()))
}

// strongPassword requires 8-16 characters with an upper, a lower, a digit and one of @#$%^&+=!.
func strongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if n := len([]rune(pw)); n < 8 || n > 16 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Struct validates s and converts failures into a VALIDATION_FAILED domain error.
func Struct(s any) error {
	if err := get().Struct(s); err != nil {
		return translate(err, "")
	}
	return nil
}

// Var validates a single value against tag; field names the value in the error message.
func Var(field string, value any, tag string) error {
	if err := get().Var(value, tag); err != nil {
		return translate(err, field)
	}
	return nil
}

func translate(err error, field string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if name == "" {
			name = field
		}
		msg := message(name, fe)
		details[name] = msg
		messages = append(messages, msg)
	}
	return apperrors.NewValidationError(strings.Join(messages, "; "), details)
}

func message(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s must not be blank", name)
	case "notnumeric":
		return fmt.Sprintf("%s must not be purely numeric", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "password":
		return fmt.Sprintf("%s must be 8-16 characters with upper and lower case letters, a digit and one of %s", name, passwordSpecials)
	}
	return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
}
