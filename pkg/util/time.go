package util

import (
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout calendar day layout used in counter keys
// DayKeyLayout 计数键中使用的日期格式
const DayKeyLayout = "2006-01-02"

// GetZeroTime gets 0:00 time of a certain day
// GetZeroTime 获取某一天的0点时间
func GetZeroTime(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// DayKey returns the UTC calendar day of t
// DayKey 返回 t 所在的 UTC 日期
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// MustParseDuration parses s and falls back to def on error or empty input
// MustParseDuration 解析 s，出错或为空时返回 def
func MustParseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
