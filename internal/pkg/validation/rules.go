package validation

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/uniportal/internal/app/models"
)

// RoleTag is the struct tag that accepts only canonical role slugs
const RoleTag = "role"

var registerOnce sync.Once

// RegisterRules adds the application's custom rules to v
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation(RoleTag, validateRole)
}

// RegisterGinRules registers the custom rules on gin's binding validator.
// Safe to call more than once.
func RegisterGinRules() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterRules(v)
	})
	return err
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := models.ParseRole(fl.Field().String())
	return err == nil
}
