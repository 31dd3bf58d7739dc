package http

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// RegisterValidators adds the custom binding tags used by request structs:
//
//	hhmm  24-hour "HH:mm" clock time
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
}

// ValidHHMM reports whether s is a 24-hour "HH:mm" time.
func ValidHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}
