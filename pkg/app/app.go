package app

import (
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

type Pager struct {
	Page      int `json:"page"`      // Page number // 页码
	PageSize  int `json:"pageSize"`  // Page size // 每页数量
	TotalRows int `json:"totalRows"` // Total rows // 总行数
}

type ListRes struct {
	List  interface{} `json:"list"`  // Data list // 数据清单
	Pager Pager       `json:"pager"` // Pagination info // 翻页信息
}

// Res is the unified response envelope: success/code/message/data
// Details is only present on failures that carry field level information
// Res 是统一的响应结构：success/code/message/data
// Details 仅在失败且携带字段信息时输出
type Res struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

// LangKey gin context key holding the request language
// LangKey 请求语言在 gin.Context 中的键
const LangKey = "lang"

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// GetAccessHost returns scheme and host of the current request
// GetAccessHost 返回当前请求的协议与主机
func GetAccessHost(c *gin.Context) string {
	proto := c.Request.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	return proto + "://" + c.Request.Host
}

func (r *Response) message(codeObj *code.Code) string {
	return codeObj.Lang.Message(r.Ctx.GetString(LangKey))
}

// ToResponse writes the envelope with the HTTP status bound to codeObj
// ToResponse 按 Code 绑定的 HTTP 状态码输出统一响应
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	msg := r.message(codeObj)
	content := Res{
		Success: codeObj.Status(),
		Code:    codeObj.Code(),
		Message: msg,
		Data:    codeObj.Data(),
	}
	if !codeObj.Status() {
		content.Error = msg
	}
	if codeObj.HaveDetails() {
		content.Details = codeObj.Details()
	}

	r.Ctx.JSON(codeObj.StatusCode(), content)
}

// ToResponseList outputs list response using ListRes as Data
// ToResponseList 输出列表响应，使用 ListRes 作为 Data
func (r *Response) ToResponseList(codeObj *code.Code, list any, pager Pager) {
	r.ToResponse(codeObj.WithData(ListRes{
		List:  list,
		Pager: pager,
	}))
}
