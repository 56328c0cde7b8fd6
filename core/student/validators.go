package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ascend-bim/gradebook/core"
)

var (
	deliveryTag  = "delivery"
	deliveryText = "unknown delivery"
)

// InitValidators registers the student validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(deliveryTag, deliveryValidation)
	core.RegisterCustomTranslation(validate, translator, deliveryTag, deliveryText)
}

// deliveryValidation only allows known delivery ids.
func deliveryValidation(fl validator.FieldLevel) bool {
	return IsDelivery(fl.Field().String())
}
