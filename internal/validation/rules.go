// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// UUIDEach validates that every element of a []uuid.UUID is a non-nil UUID.
// JSON decoding already rejects malformed UUID strings; this rule catches the
// all-zero UUID that decodes successfully but never identifies a real resource.
var UUIDEach = validation.By(func(value interface{}) error {
	ids, ok := value.([]uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuid_list", "must be a list of UUIDs")
	}
	for _, id := range ids {
		if id == uuid.Nil {
			return validation.NewError("validation_uuid_nil", "must not contain the nil UUID")
		}
	}
	return nil
})
