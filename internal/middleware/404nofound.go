package middleware

import (
	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler
// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI)
		c.Abort()
	}
}

// NoMethod 405 handler
// NoMethod 405 处理
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorMethodNotAllow)
		c.Abort()
	}
}
