package state

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ivanmalyshevv/weblarek/internal/model"
)

var phonePattern = regexp.MustCompile(`^\+?\d+$`)

// messages maps a field and the failing rule to the text shown to the user.
var messages = map[model.OrderField]map[string]string{
	model.FieldPayment: {
		"required": "Необходимо выбрать способ оплаты",
	},
	model.FieldAddress: {
		"required": "Необходимо указать адрес",
	},
	model.FieldEmail: {
		"required": "Необходимо указать email",
		"contains": "Некорректный email",
	},
	model.FieldPhone: {
		"required": "Необходимо указать телефон",
		"phone":    "Некорректный формат телефона",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateDraft runs every rule against d and returns the full error set.
// The validator reports at most one failure per field, the first failing
// rule in tag order.
func validateDraft(v *validator.Validate, d model.OrderDraft) model.ValidationErrors {
	out := make(model.ValidationErrors)

	err := v.Struct(d)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable with a non-struct argument.
		for _, f := range model.OrderFields {
			out[f] = err.Error()
		}
		return out
	}

	for _, fe := range verrs {
		field := model.OrderField(fe.Field())
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[field] = msg
	}
	return out
}
