package handlers

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Must run before any request binding happens.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("period", validPeriod)
}

// validPeriod accepts accounting periods in YYYY-MM form.
func validPeriod(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01", fl.Field().String())
	return err == nil
}
