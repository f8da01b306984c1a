// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/uni-task-service/internal/dao"
	"github.com/haierkeys/uni-task-service/internal/middleware"
	"github.com/haierkeys/uni-task-service/internal/service"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/storage"
	"github.com/haierkeys/uni-task-service/pkg/util"
	"github.com/haierkeys/uni-task-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File          string                  `yaml:"-"` // 配置文件路径，不序列化
	Server        ServerConfig            `yaml:"server"`
	Log           LogConfig               `yaml:"log"`
	Database      dao.DatabaseConfig      `yaml:"database"`
	Security      SecurityConfig          `yaml:"security"`
	App           AppSettings             `yaml:"app"`
	Collaborative CollaborativeConfig     `yaml:"collaborative"`
	Counter       counter.Config          `yaml:"counter"`
	Storage       storage.Config          `yaml:"storage"`
	Tracer        middleware.TracerConfig `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"uni-task-Auth-Token"`
	TokenExpiry  string `yaml:"token-expiry" default:"7d"` // Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"10"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// MaxUploadSize 协作上传大小上限
	MaxUploadSize string `yaml:"max-upload-size" default:"10MiB"`
	// UploadPrefix 协作上传的存储前缀
	UploadPrefix string `yaml:"upload-prefix" default:"collaborative"`
	// PublicBaseURL share links are built on this base, empty uses the request host
	// PublicBaseURL 分享链接前缀，为空时使用请求的主机
	PublicBaseURL string `yaml:"public-base-url"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// CollaborativeConfig 协作分享的默认限制
type CollaborativeConfig struct {
	RateLimit                 int64    `yaml:"rate-limit" default:"30"`
	RateWindow                string   `yaml:"rate-window" default:"60s"`
	DefaultMaxConcurrentUsers int      `yaml:"default-max-concurrent-users" default:"10"`
	DefaultMaxDailyAccess     int      `yaml:"default-max-daily-access" default:"100"`
	DefaultMaxSessionDuration string   `yaml:"default-max-session-duration" default:"1h"`
	AllowedCountries          []string `yaml:"allowed-countries" default:"[\"ID\",\"MY\",\"SG\"]"`
	PresenceWindow            string   `yaml:"presence-window" default:"10m"`
	ActiveWindow              string   `yaml:"active-window" default:"5m"`
	RecentActivityLimit       int      `yaml:"recent-activity-limit" default:"5"`
	DashboardActivityLimit    int      `yaml:"dashboard-activity-limit" default:"10"`

	Geo        GeoConfig        `yaml:"geo"`
	StaleSweep StaleSweepConfig `yaml:"stale-sweep"`
	PresenceGC PresenceGCConfig `yaml:"presence-gc"`
}

// GeoConfig 地理位置限制配置
type GeoConfig struct {
	// Enabled is a pointer so an explicit false survives the second defaults pass
	// Enabled 使用指针，显式的 false 不会被第二次默认值填充覆盖
	Enabled *bool `yaml:"enabled" default:"true"`
	// MMDBPath GeoLite2 Country 数据库，为空时所有地址视为 DefaultCountry
	MMDBPath       string `yaml:"mmdb-path"`
	DefaultCountry string `yaml:"default-country" default:"ID"`
}

// IsEnabled reports whether country checks run, unset means enabled
// IsEnabled 是否启用国家检查，未设置时为启用
func (g GeoConfig) IsEnabled() bool {
	return g.Enabled == nil || *g.Enabled
}

// StaleSweepConfig participants not seen within After are flipped offline
// StaleSweepConfig 超过 After 未出现的参与者会被置为离线
type StaleSweepConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	Interval string `yaml:"interval" default:"1m"`
	After    string `yaml:"after" default:"10m"`
	CronSpec string `yaml:"cron-spec"`
}

// PresenceGCConfig 离线在线记录清理配置
type PresenceGCConfig struct {
	Interval  string `yaml:"interval" default:"1h"`
	Retention string `yaml:"retention" default:"7d"`
	CronSpec  string `yaml:"cron-spec"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig parses yaml content and applies defaults
// ParseConfig 解析 yaml 内容并填充默认值
func ParseConfig(content []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	cfg.WriteTimeout = util.MustParseDuration(c.App.WriteQueueTimeout, cfg.WriteTimeout)
	cfg.IdleTimeout = util.MustParseDuration(c.App.WriteQueueIdleTime, cfg.IdleTimeout)

	return cfg
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.TokenExpiry, 7*24*time.Hour)
}

// GetContextTimeout 获取请求上下文超时时间
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetServiceConfig maps the yaml sections onto the service layer limits
// Unparseable durations keep the built in default
// GetServiceConfig 将配置映射为服务层限制，无法解析的时长保留内置默认值
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	cfg := service.DefaultServiceConfig()
	col := &cfg.Collaborative

	if c.Collaborative.RateLimit > 0 {
		col.RateLimit = c.Collaborative.RateLimit
	}
	col.RateWindow = util.MustParseDuration(c.Collaborative.RateWindow, col.RateWindow)
	if c.Collaborative.DefaultMaxConcurrentUsers > 0 {
		col.DefaultMaxConcurrentUsers = c.Collaborative.DefaultMaxConcurrentUsers
	}
	if c.Collaborative.DefaultMaxDailyAccess > 0 {
		col.DefaultMaxDailyAccess = c.Collaborative.DefaultMaxDailyAccess
	}
	col.DefaultMaxSessionDuration = util.MustParseDuration(c.Collaborative.DefaultMaxSessionDuration, col.DefaultMaxSessionDuration)
	if countries := normalizeCountries(c.Collaborative.AllowedCountries); len(countries) > 0 {
		col.AllowedCountries = countries
	}
	col.GeoEnabled = c.Collaborative.Geo.IsEnabled()
	col.PresenceWindow = util.MustParseDuration(c.Collaborative.PresenceWindow, col.PresenceWindow)
	col.ActiveWindow = util.MustParseDuration(c.Collaborative.ActiveWindow, col.ActiveWindow)
	if c.Collaborative.RecentActivityLimit > 0 {
		col.RecentActivityLimit = c.Collaborative.RecentActivityLimit
	}
	if c.Collaborative.DashboardActivityLimit > 0 {
		col.DashboardActivityLimit = c.Collaborative.DashboardActivityLimit
	}

	cfg.App.PublicBaseURL = strings.TrimRight(c.App.PublicBaseURL, "/")
	if size, err := humanize.ParseBytes(c.App.MaxUploadSize); err == nil && size > 0 {
		cfg.App.MaxUploadSize = int64(size)
	}
	if c.App.UploadPrefix != "" {
		cfg.App.UploadPrefix = c.App.UploadPrefix
	}
	return cfg
}

func normalizeCountries(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
