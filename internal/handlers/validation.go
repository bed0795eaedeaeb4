package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerValidations installs custom binding rules on gin's validator engine.
// "dgte" checks a decimal.Decimal field against a minimum, e.g. dgte=0.01.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dgte", validateDecimalGTE)
}

func validateDecimalGTE(fl validator.FieldLevel) bool {
	min, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return value.GreaterThanOrEqual(min)
}
