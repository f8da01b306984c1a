// Package validator wires go-playground/validator into gin binding
// Package validator 将 go-playground/validator 接入 gin 绑定
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	id_translations "github.com/go-playground/validator/v10/translations/id"
	"github.com/pkg/errors"
)

// CustomValidator gin StructValidator backed by validator/v10 with the "binding" tag
// CustomValidator 基于 validator/v10 的 gin 校验器，使用 binding 标签
type CustomValidator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct validates structs, pointers to structs and slices of them
// ValidateStruct 校验结构体、结构体指针及其切片
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Setup installs the validator into gin, registers custom tags and returns the translators
// Setup 安装 gin 校验器，注册自定义标签并返回翻译器
func Setup() (*ut.UniversalTranslator, error) {
	cv := NewCustomValidator()
	binding.Validator = cv
	validate := cv.Engine().(*validator.Validate)

	if err := RegisterCustom(validate); err != nil {
		return nil, err
	}

	uni := ut.New(en.New(), en.New(), id.New())
	enTran, _ := uni.GetTranslator("en")
	idTran, _ := uni.GetTranslator("id")

	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, errors.Wrap(err, "validator: en translations")
	}
	if err := id_translations.RegisterDefaultTranslations(validate, idTran); err != nil {
		return nil, errors.Wrap(err, "validator: id translations")
	}
	if err := registerCustomTranslations(validate, enTran, idTran); err != nil {
		return nil, err
	}
	return uni, nil
}
