package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var serialPattern = regexp.MustCompile(`^[A-Za-z0-9]{3,}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("serial", func(fl validator.FieldLevel) bool {
		return IsValidSerial(fl.Field().String())
	})
}

// ValidateStruct validates a struct using validation tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// IsValidSerial checks the identifier format: alphanumeric, length >= 3
func IsValidSerial(serial string) bool {
	return serialPattern.MatchString(serial)
}
