// Package geo resolves client addresses to ISO 3166-1 alpha-2 country codes
// Package geo 将客户端地址解析为 ISO 3166-1 两位国家代码
package geo

import (
	"context"
	"strings"
)

// Locator resolves an address to an upper case country code
// Locator 将地址解析为大写国家代码
type Locator interface {
	Country(ctx context.Context, ip string) (string, error)
}

// StaticLocator always answers Code
// StaticLocator 总是返回固定的国家代码
type StaticLocator struct {
	Code string
}

func (l StaticLocator) Country(context.Context, string) (string, error) {
	return strings.ToUpper(l.Code), nil
}

// FuncLocator adapts a function to Locator
// FuncLocator 将函数适配为 Locator
type FuncLocator func(ctx context.Context, ip string) (string, error)

func (f FuncLocator) Country(ctx context.Context, ip string) (string, error) {
	return f(ctx, ip)
}

// Allowed reports whether country is in list, comparison ignores case
// Allowed 判断国家是否在允许列表中，忽略大小写
func Allowed(country string, list []string) bool {
	for _, c := range list {
		if strings.EqualFold(strings.TrimSpace(c), country) {
			return true
		}
	}
	return false
}
