package utils

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("link_id", validateLinkID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateLinkID accepts any linkId a questionnaire may declare, only
// refusing control characters.
func validateLinkID(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}
