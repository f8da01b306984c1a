package middleware

import (
	"strings"

	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// Lang picks the request language from ?lang=, the lang header or Accept-Language
// The validator translator is stored under "trans"
// Lang 从 ?lang=、lang 请求头或 Accept-Language 选择语言，校验翻译器存入 "trans"
func Lang(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang = s
		}
		lang = normalizeLang(lang)
		if !code.IsSupportedLang(lang) {
			lang = code.FALLBACK_LNG
		}
		c.Set(app.LangKey, lang)

		if uni != nil {
			trans, found := uni.GetTranslator(lang)
			if !found {
				trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
			}
			c.Set("trans", trans)
		}
		c.Next()
	}
}

// normalizeLang keeps the primary subtag, "id-ID,id;q=0.9" becomes "id"
func normalizeLang(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	return s
}
