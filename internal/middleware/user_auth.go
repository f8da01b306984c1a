package middleware

import (
	"strings"

	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// bearerToken reads Authorization (with or without the Bearer prefix), then the token query and header
func bearerToken(c *gin.Context) string {
	if s := c.GetHeader("Authorization"); s != "" {
		if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
			return strings.TrimSpace(s[7:])
		}
		return strings.TrimSpace(s)
	}
	if s, ok := c.GetQuery("token"); ok {
		return s
	}
	return c.GetHeader("Token")
}

// UserAuthOptional attaches the user when a valid token is present, anything else stays anonymous
// UserAuthOptional 携带有效 Token 时附加用户信息，否则按匿名处理
func UserAuthOptional(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := tm.Parse(token); err == nil {
				c.Set(app.UserTokenKey, user)
			}
		}
		c.Next()
	}
}

// UserAuthRequired rejects requests without a valid token
// UserAuthRequired 拒绝没有有效 Token 的请求
func UserAuthRequired(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		token := bearerToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}
		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidAuthToken)
			c.Abort()
			return
		}
		c.Set(app.UserTokenKey, user)
		c.Next()
	}
}
