// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Collaborative CollaborativeConfig // Share and presence limits // 分享与在线状态限制
	App           AppServiceConfig    // App related config // 应用相关配置

	// Now is the service clock, nil means time.Now
	// Now 服务时钟，nil 使用 time.Now
	Now func() time.Time
}

// CollaborativeConfig process wide defaults, a ShareGrant field overrides its default when set
// CollaborativeConfig 进程级默认值，分享授权中设置的字段优先
type CollaborativeConfig struct {
	RateLimit                 int64         // Requests per window per (address, token) // 每个 (地址, Token) 的窗口请求数
	RateWindow                time.Duration // Rate window // 限流窗口
	DefaultMaxConcurrentUsers int           // 默认最大并发参与者
	DefaultMaxDailyAccess     int           // 默认每日访问上限
	DefaultMaxSessionDuration time.Duration // 默认会话时长
	AllowedCountries          []string      // 默认允许国家
	GeoEnabled                bool          // 是否启用地理限制
	PresenceWindow            time.Duration // Presence feed window // 在线信息窗口
	ActiveWindow              time.Duration // Participant is live when seen within this window // 活跃判定窗口
	RecentActivityLimit       int           // Feed activities // 轮询返回的活动条数
	DashboardActivityLimit    int           // Dashboard activities // 分享页面活动条数
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	PublicBaseURL string // Base of generated share urls, empty uses the request host // 分享链接前缀，空则使用请求主机
	MaxUploadSize int64  // Bytes // 最大上传字节数
	UploadPrefix  string // Storage key prefix for collaborative uploads // 协作上传的存储前缀
}

// DefaultServiceConfig returns the built in limits
// DefaultServiceConfig 返回内置默认值
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Collaborative: CollaborativeConfig{
			RateLimit:                 30,
			RateWindow:                60 * time.Second,
			DefaultMaxConcurrentUsers: 10,
			DefaultMaxDailyAccess:     100,
			DefaultMaxSessionDuration: time.Hour,
			AllowedCountries:          []string{"ID", "MY", "SG"},
			GeoEnabled:                true,
			PresenceWindow:            10 * time.Minute,
			ActiveWindow:              5 * time.Minute,
			RecentActivityLimit:       5,
			DashboardActivityLimit:    10,
		},
		App: AppServiceConfig{
			MaxUploadSize: 10 << 20,
			UploadPrefix:  "collaborative",
		},
	}
}

func (c *ServiceConfig) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

// maxConcurrent returns the grant override or the default
func (c *CollaborativeConfig) maxConcurrent(override int) int {
	if override > 0 {
		return override
	}
	return c.DefaultMaxConcurrentUsers
}

func (c *CollaborativeConfig) maxDaily(override int) int {
	if override > 0 {
		return override
	}
	return c.DefaultMaxDailyAccess
}

func (c *CollaborativeConfig) maxSession(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return c.DefaultMaxSessionDuration
}

func (c *CollaborativeConfig) countries(override []string) []string {
	if len(override) > 0 {
		return override
	}
	return c.AllowedCountries
}
