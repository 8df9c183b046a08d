package rest

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagNameRe = regexp.MustCompile(`^[a-zA-Z0-9]{1,30}$`)

// RegisterCustomValidators wires the extra binding rules into gin's
// validator engine. Call once during startup.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagNameRe.MatchString(fl.Field().String())
	})
}
