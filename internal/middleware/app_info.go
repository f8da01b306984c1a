package middleware

import (
	"github.com/haierkeys/uni-task-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AccessHostKey gin context key holding the base url for generated links
// AccessHostKey 生成链接使用的基础地址在 gin.Context 中的键
const AccessHostKey = "access_host"

// AppInfo stores app name, version and the public base url, an empty publicBaseURL uses the request host
// AppInfo 写入应用名称、版本与对外地址，publicBaseURL 为空时使用请求主机
func AppInfo(name, version, publicBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		if publicBaseURL != "" {
			c.Set(AccessHostKey, publicBaseURL)
		} else {
			c.Set(AccessHostKey, app.GetAccessHost(c))
		}
		c.Next()
	}
}
