package validation

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/userservice/errors"
)

// TagStrongPassword requires an ASCII digit, lowercase and uppercase letter.
const TagStrongPassword = "strongpassword"

// TagMaxBytes bounds the UTF-8 encoded length of a string. max counts runes,
// which lets multi-byte input exceed limits such as bcrypt's 72 bytes.
const TagMaxBytes = "maxbytes"

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
		_ = validate.RegisterValidation(TagStrongPassword, strongPassword)
		_ = validate.RegisterValidation(TagMaxBytes, maxBytes)
	})
	return validate
}

func strongPassword(fl validator.FieldLevel) bool {
	var digit, lower, upper bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	return digit && lower && upper
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate validates a struct using its `validate` tags. All failing fields
// are reported, in declaration order.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.InvalidInput("body", "is invalid")
	}

	fields := make([]errors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, errors.FieldError{
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return errors.Validation(fields)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isString {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if isString {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "numeric", "number":
		return "must contain only digits"
	case TagMaxBytes:
		return "must be at most " + e.Param() + " bytes"
	case "oneof":
		return "must be one of: " + e.Param()
	case TagStrongPassword:
		return "must contain at least one digit, one uppercase and one lowercase letter"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
