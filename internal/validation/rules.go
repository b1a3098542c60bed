// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/redkeep/redkeep/internal/errors"
)

var (
	// hexKeyRegex matches a 64-character hexadecimal string (a 256-bit key).
	hexKeyRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// HexKey256 validates that a string is a 64-character hexadecimal encryption key.
var HexKey256 = validation.NewStringRuleWithError(
	func(s string) bool {
		return hexKeyRegex.MatchString(s)
	},
	validation.NewError(
		"validation_hex_key",
		"must be a 64-character hexadecimal string",
	),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
