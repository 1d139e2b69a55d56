// Package validator registers custom validation functions with Gin's binding
// engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"granaia/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
// Decimal fields are mapped to float64 so numeric tags (gt, gte, ...) apply
// to monetary amounts.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})
		_ = v.RegisterValidation("categoria_financeira", validateCategoria)
		_ = v.RegisterValidation("tipo_premium", validateTipoPremium)
	}
}

func decimalToFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateCategoria(fl validator.FieldLevel) bool {
	return models.ValidCategory(models.Category(fl.Field().String()))
}

func validateTipoPremium(fl validator.FieldLevel) bool {
	return models.ValidPremiumTier(models.PremiumTier(fl.Field().String()))
}
