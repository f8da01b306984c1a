package code

import (
	"errors"
	"fmt"
	"reflect"
)

// lang type, used to store English and Indonesian text
// lang 类型，用来存储英文和印尼文文本
type lang struct {
	en string // English // 英文
	id string // Bahasa Indonesia // 印尼文
}

// Default language is English // 默认语言为英文
var lng = "en"

const FALLBACK_LNG = "en"

// GetMessage returns the message in the process default language
// GetMessage 返回进程默认语言的消息
func (l lang) GetMessage() string {
	return l.Message(lng)
}

// Message returns the message for the given language, falling back to English
// Message 根据传入的语言返回相应的消息，无效时回退到英文
func (l lang) Message(language string) string {
	if language == "" {
		language = lng
	}
	val := reflect.ValueOf(l)
	field := val.FieldByName(language)
	if field.IsValid() && field.String() != "" {
		return field.String()
	}
	fallbackField := val.FieldByName(FALLBACK_LNG)
	if fallbackField.IsValid() && fallbackField.String() != "" {
		return fallbackField.String()
	}
	return fmt.Sprintf("No message available for language: %s", language)
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// IsSupportedLang reports whether language has a lang field
// IsSupportedLang 判断语言是否受支持
func IsSupportedLang(language string) bool {
	for _, l := range GetSupportedLanguages() {
		if l == language {
			return true
		}
	}
	return false
}

// SetGlobalDefaultLang sets the process default language, used when a request names none
// SetGlobalDefaultLang 设置进程默认语言，请求未指定语言时使用
func SetGlobalDefaultLang(language string) error {
	if IsSupportedLang(language) {
		lng = language
		return nil
	}
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the process default language
// GetGlobalDefaultLang 获取进程默认语言
func GetGlobalDefaultLang() string {
	return lng
}
