package routers

import (
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/middleware"
	"github.com/haierkeys/uni-task-service/internal/routers/api_router"
	"github.com/haierkeys/uni-task-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// methodLimiters 按路由模式限流，与每个分享链接的限额相互独立
var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/collaborative/share/:listId",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "/collaborative/shared/:token/upload",
		FillInterval: time.Second,
		Capacity:     20,
		Quantum:      5,
	},
)

// NewRouter builds the HTTP surface on top of the app container
// uni may be nil, validation messages then stay untranslated
// NewRouter 基于应用容器构建 HTTP 路由，uni 为空时校验信息不翻译
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	log := appContainer.Logger()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Tracer(cfg.Tracer))
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
	r.Use(middleware.Lang(uni))
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version, cfg.App.PublicBaseURL))
	r.Use(middleware.RateLimiter(methodLimiters))

	// 创建 Handlers（注入 App Container）
	healthHandler := api_router.NewHealthHandler(appContainer)
	shareHandler := api_router.NewShareHandler(appContainer)
	presenceHandler := api_router.NewPresenceHandler(appContainer)
	sharedHandler := api_router.NewSharedHandler(appContainer)
	todoHandler := api_router.NewTodoHandler(appContainer)

	optionalAuth := middleware.UserAuthOptional(appContainer.TokenManager)
	requiredAuth := middleware.UserAuthRequired(appContainer.TokenManager)

	// shared builds auth -> guard -> access, the guard always runs before the permission decision
	shared := func(auth gin.HandlerFunc, joining bool, action domain.Action) []gin.HandlerFunc {
		return []gin.HandlerFunc{
			auth,
			middleware.QuotaGuard(appContainer.AccessResolver, appContainer.QuotaGuard, joining, log),
			middleware.ShareAccess(appContainer.AccessResolver, action, log),
		}
	}
	view := shared(optionalAuth, false, domain.ActionView)
	edit := shared(optionalAuth, false, domain.ActionEdit)
	member := shared(requiredAuth, false, domain.ActionView)
	joining := shared(requiredAuth, true, domain.ActionView)

	with := func(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, chain...), h)
	}

	r.GET("/shared/:token", with(view, shareHandler.Dashboard)...)
	r.GET("/shared/:token/updates", with(view, shareHandler.Updates)...)

	collab := r.Group("/collaborative")
	{
		collab.POST("/share/:listId", requiredAuth, shareHandler.Create)
		collab.GET("/shares/:listId", requiredAuth, shareHandler.List)
		collab.DELETE("/share/:token", requiredAuth, shareHandler.Revoke)

		presence := collab.Group("/presence")
		presence.POST("/join/:token", with(joining, presenceHandler.Join)...)
		presence.POST("/leave/:token", with(member, presenceHandler.Leave)...)
		presence.POST("/update/:token", with(member, presenceHandler.Update)...)
		presence.POST("/away/:token", with(member, presenceHandler.Away)...)
		presence.GET("/participants/:token", with(view, presenceHandler.Participants)...)
		presence.GET("/updates/:token", with(view, presenceHandler.Updates)...)

		collab.POST("/shared/:token/item", with(edit, sharedHandler.CreateItem)...)
		collab.PUT("/shared/:token/item/:itemId", with(edit, sharedHandler.UpdateItem)...)
		collab.POST("/shared/:token/upload", with(edit, sharedHandler.Upload)...)
		collab.GET("/shared/:token/file/:fileId", with(view, sharedHandler.Download)...)
	}

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		lists := api.Group("/todo-lists", requiredAuth)
		lists.GET("", todoHandler.List)
		lists.POST("", todoHandler.Create)
		lists.GET("/:id", todoHandler.Get)
		lists.PUT("/:id", todoHandler.Update)
		lists.DELETE("/:id", todoHandler.Delete)
		lists.POST("/:id/items", todoHandler.CreateItem)
		lists.PUT("/:id/items/:itemId", todoHandler.UpdateItem)
		lists.DELETE("/:id/items/:itemId", todoHandler.DeleteItem)
		lists.DELETE("/:id/files/:fileId", todoHandler.DeleteFile)
	}

	r.NoRoute(middleware.NoFound())
	r.NoMethod(middleware.NoMethod())

	return r
}
