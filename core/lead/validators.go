package lead

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradespark/core"
)

var (
	roleTag  = "leadrole"
	roleText = "unknown role"

	sizeTag  = "leadsize"
	sizeText = "unknown team size"

	timelineTag  = "leadtimeline"
	timelineText = "unknown timeline"
)

// RegisterValidators registers the lead form option validators on validate.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, optionValidation(Roles))
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(sizeTag, optionValidation(Sizes))
	core.RegisterCustomTranslation(validate, translator, sizeTag, sizeText)

	_ = validate.RegisterValidation(timelineTag, optionValidation(Timelines))
	core.RegisterCustomTranslation(validate, translator, timelineTag, timelineText)
}

// optionValidation checks that a string field holds one of options.
func optionValidation(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		for _, opt := range options {
			if val == opt {
				return true
			}
		}
		return false
	}
}
