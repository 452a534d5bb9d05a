package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the project tags registered:
//
//	videoid  - an 11 character YouTube video id
//	notblank - a string with at least one non-whitespace character
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("videoid", func(fl validator.FieldLevel) bool {
		return IsVideoID(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// IsVideoID reports whether id has the shape of a YouTube video id
func IsVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}
