package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	pinCodeRegexp = regexp.MustCompile(`^\d{5,10}$`)
	mobileRegexp  = regexp.MustCompile(`^\d{10}$`)
)

// New builds the validator all form-bearing operations share. The custom
// tags carry the same rules the web checkout enforced.
func New() *validator.Validate {

	v := validator.New()

	// Registration only fails for a nil func or empty tag.
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pinCodeRegexp.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegexp.MatchString(fl.Field().String())
	})

	return v
}
