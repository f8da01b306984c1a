package middleware

import (
	"strconv"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/service"
	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ShareGrantKey gin context key holding the admitted *domain.ShareGrant
	// ShareGrantKey 通过准入的授权在 gin.Context 中的键
	ShareGrantKey = "share_grant"
	// ShareAccessKey gin context key holding the resolved *service.Access
	// ShareAccessKey 解析后的访问信息在 gin.Context 中的键
	ShareAccessKey = "share_access"
)

// fail writes the mapped error, internal errors are logged before the generic 500
func fail(c *gin.Context, log *zap.Logger, err error) {
	if service.IsInternal(err) {
		log.Error("shared request failed",
			zap.String(logger.FieldPath, c.Request.URL.Path),
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
			zap.Error(err))
	}
	app.NewResponse(c).ToResponse(service.ErrorCode(err))
	c.Abort()
}

// QuotaGuard admits the request against the grant behind :token before any permission decision
// Joining routes are also subject to the concurrent participant cap
// QuotaGuard 在权限判定之前按 :token 对应的授权执行准入检查，加入路由额外检查并发上限
func QuotaGuard(resolver service.AccessResolver, guard service.QuotaGuard, joining bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		grant, err := resolver.Grant(c.Request.Context(), c.Param("token"))
		if err != nil {
			fail(c, log, err)
			return
		}

		adm, err := guard.Admit(c.Request.Context(), service.AdmitRequest{
			Grant:   grant,
			Address: app.GetRequestIP(c),
			UserID:  app.GetRequester(c),
			Joining: joining,
		})
		if adm != nil {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(adm.RateLimit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(adm.RateRemaining(), 10))
			if adm.DailyLimit > 0 {
				c.Header("X-Daily-Remaining", strconv.FormatInt(adm.DailyRemaining(), 10))
			}
		}
		if err != nil {
			fail(c, log, err)
			return
		}
		c.Set(ShareGrantKey, grant)
		c.Next()
	}
}

// ShareAccess resolves the requester's access to :token for action
// ShareAccess 解析请求者对 :token 的访问权限
func ShareAccess(resolver service.AccessResolver, action domain.Action, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := resolver.Resolve(c.Request.Context(), c.Param("token"), app.GetRequester(c), action)
		if err != nil {
			fail(c, log, err)
			return
		}
		c.Set(ShareAccessKey, access)
		c.Next()
	}
}

// GetAccess 获取 ShareAccess 写入的访问信息
func GetAccess(c *gin.Context) *service.Access {
	if v, ok := c.Get(ShareAccessKey); ok {
		if access, ok := v.(*service.Access); ok {
			return access
		}
	}
	return nil
}
