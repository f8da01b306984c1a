package validator

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var permissionTypes = map[string]struct{}{
	"can_view": {},
	"can_edit": {},
}

// alpha2 is a shared validator for single country codes
var alpha2 = validator.New()

// PermissionType can_view | can_edit
func PermissionType(fl validator.FieldLevel) bool {
	_, ok := permissionTypes[fl.Field().String()]
	return ok
}

// CountryList comma separated ISO 3166-1 alpha-2 codes, case is ignored
// CountryList 逗号分隔的 ISO 3166-1 二位国家代码，忽略大小写
func CountryList(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}
	for _, c := range strings.Split(raw, ",") {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if alpha2.Var(c, "iso3166_1_alpha2") != nil {
			return false
		}
	}
	return true
}

// RegisterCustom 注册自定义校验标签
func RegisterCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("permission_type", PermissionType); err != nil {
		return errors.Wrap(err, "validator: permission_type")
	}
	if err := v.RegisterValidation("country_list", CountryList); err != nil {
		return errors.Wrap(err, "validator: country_list")
	}
	return nil
}

type customMessage struct {
	tag string
	en  string
	id  string
}

var customMessages = []customMessage{
	{"permission_type", "{0} must be can_edit or can_view", "{0} harus can_edit atau can_view"},
	{"country_list", "{0} must be a comma separated list of country codes", "{0} harus berupa daftar kode negara yang dipisahkan koma"},
}

func registerCustomTranslations(v *validator.Validate, enTran, idTran ut.Translator) error {
	for _, m := range customMessages {
		for _, pair := range []struct {
			trans ut.Translator
			text  string
		}{{enTran, m.en}, {idTran, m.id}} {
			text := pair.text
			tag := m.tag
			err := v.RegisterTranslation(tag, pair.trans,
				func(ut ut.Translator) error {
					return ut.Add(tag, text, true)
				},
				func(ut ut.Translator, fe validator.FieldError) string {
					t, _ := ut.T(tag, fe.Field())
					return t
				})
			if err != nil {
				return errors.Wrap(err, "validator: "+tag+" translation")
			}
		}
	}
	return nil
}
