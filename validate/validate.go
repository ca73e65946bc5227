// Package validate registers the project's custom binding validators on
// gin's validator engine. Call Register once before building the router.
package validate

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"travel-pricing-backend/models"
	"travel-pricing-backend/services"
)

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("ruletype", oneOf(models.RuleTypes))
	_ = v.RegisterValidation("adjustmenttype", oneOf(models.AdjustmentTypes))
	_ = v.RegisterValidation("importmode", oneOf(services.ImportModes))
	_ = v.RegisterValidation("weekday", oneOf(weekdays))
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}
