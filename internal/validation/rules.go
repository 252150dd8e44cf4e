package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[^@\s]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// tokenRegex matches the alphanumeric alphabet used by the token generator
	tokenRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// Email validates that a string looks like an email address with a dotted
// domain. The namespace policy performs its own, stricter resolution; this
// rule only rejects obviously malformed input before it reaches the core.
var Email = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_email_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !emailRegex.MatchString(s) {
		return validation.NewError("validation_email", "must be a valid email address")
	}
	return nil
})

// VerificationToken validates that a string could have been produced by the
// alphanumeric token generator.
var VerificationToken = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_token_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !tokenRegex.MatchString(s) {
		return validation.NewError("validation_token", "must contain only alphanumeric characters")
	}
	return nil
})

// NameURI validates that a string is a slash-delimited NDN name in URI form.
var NameURI = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_name_uri_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !strings.HasPrefix(s, "/") {
		return validation.NewError("validation_name_uri", "must start with '/'")
	}
	return nil
})
