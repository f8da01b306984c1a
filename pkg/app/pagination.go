package app

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// queryInt reads name from the query string, then from the form, 0 when absent or malformed
func queryInt(c *gin.Context, name string) int {
	s, ok := c.GetQuery(name)
	if !ok {
		s = c.PostForm(name)
	}
	v, _ := strconv.Atoi(s)
	return v
}

// GetPage 获取页码，最小为 1
func GetPage(c *gin.Context) int {
	return max(queryInt(c, "page"), 1)
}

// GetPageSizeWithConfig returns pageSize clamped to cfg, missing or non positive values use the default
// GetPageSizeWithConfig 获取分页大小，超过上限取上限，缺省取默认值
func GetPageSizeWithConfig(c *gin.Context, cfg PaginationConfig) int {
	pageSize := queryInt(c, "pageSize")
	switch {
	case pageSize <= 0:
		return cfg.DefaultPageSize
	case cfg.MaxPageSize > 0 && pageSize > cfg.MaxPageSize:
		return cfg.MaxPageSize
	}
	return pageSize
}

// NewPager builds the page and page size of the request, TotalRows is filled by the caller
// NewPager 按请求参数生成分页信息，TotalRows 由调用方填充
func NewPager(c *gin.Context, cfg PaginationConfig) Pager {
	return Pager{Page: GetPage(c), PageSize: GetPageSizeWithConfig(c, cfg)}
}
