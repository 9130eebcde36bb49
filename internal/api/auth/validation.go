package auth

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tour-backoffice/internal/domain/access"
)

var registerOnce sync.Once

// RegisterValidators adds the `role` binding rule to gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, ok := access.ParseRole(fl.Field().String())
			return ok
		})
	})
}
