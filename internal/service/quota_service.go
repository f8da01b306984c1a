package service

import (
	"context"
	"strconv"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/geo"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// dailyTTL daily counters expire 24h after the first hit of the day
const dailyTTL = 24 * time.Hour

// AdmitRequest one request in front of a shared endpoint
// AdmitRequest 分享接口前的一次准入请求
type AdmitRequest struct {
	Grant   *domain.ShareGrant
	Address string
	UserID  *int64
	Joining bool // Only joins are subject to the concurrency cap // 仅加入操作受并发上限约束
	Now     time.Time
}

// Admission counters observed while admitting a request
// Admission 准入时观测到的计数
type Admission struct {
	RateCount        int64
	RateLimit        int64
	DailyCount       int64
	DailyLimit       int64
	SessionStartedAt time.Time
	SessionReset     bool // Marker was older than the session cap and has been restarted // 会话标记超时并已重置
	Country          string
}

// RateRemaining 剩余窗口请求数
func (a *Admission) RateRemaining() int64 {
	return max(a.RateLimit-a.RateCount, 0)
}

// DailyRemaining 剩余每日访问数
func (a *Admission) DailyRemaining() int64 {
	return max(a.DailyLimit-a.DailyCount, 0)
}

// QuotaGuard defines the admission control interface of public share endpoints
// QuotaGuard 定义分享接口准入控制接口
type QuotaGuard interface {
	// Admit runs rate, concurrency, daily, session and geo checks in order
	// The first failing check decides the error
	// Admit 依次执行限流、并发、每日、会话、地理检查，第一个失败的检查决定错误
	Admit(ctx context.Context, req AdmitRequest) (*Admission, error)
}

type quotaGuard struct {
	store        counter.Store
	participants domain.ParticipantRepository
	locator      geo.Locator
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewQuotaGuard creates QuotaGuard instance
// NewQuotaGuard 创建 QuotaGuard 实例
func NewQuotaGuard(store counter.Store, participants domain.ParticipantRepository, locator geo.Locator, logger *zap.Logger, config *ServiceConfig) QuotaGuard {
	return &quotaGuard{
		store:        store,
		participants: participants,
		locator:      locator,
		logger:       logger,
		config:       config,
	}
}

func rateKey(address, token string) string {
	return "rate:" + address + ":" + token
}

func dailyKey(token string, now time.Time) string {
	return "daily:" + token + ":" + util.DayKey(now)
}

func sessionKey(address, token string) string {
	return "session:" + address + ":" + token
}

func (g *quotaGuard) Admit(ctx context.Context, req AdmitRequest) (*Admission, error) {
	cfg := &g.config.Collaborative
	grant := req.Grant
	now := req.Now
	if now.IsZero() {
		now = g.config.now()
	}
	adm := &Admission{
		RateLimit:  cfg.RateLimit,
		DailyLimit: int64(cfg.maxDaily(grant.MaxDailyAccess)),
	}

	// 1. Per address rate
	// 1. 按地址限流
	n, err := g.store.Incr(ctx, rateKey(req.Address, grant.Token), cfg.RateWindow)
	if err != nil {
		return nil, errors.Wrap(err, "rate counter")
	}
	adm.RateCount = n
	if n > cfg.RateLimit {
		g.reject(grant, req.Address, "rate")
		return adm, domain.ErrRateLimited
	}

	// 2. Concurrent participants, only a new participant can be turned away
	// 2. 并发参与者，只拦截新加入者
	if req.Joining {
		if err := g.checkCapacity(ctx, grant, req.UserID); err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				g.reject(grant, req.Address, "capacity")
			}
			return adm, err
		}
	}

	// 3. Daily cap per (token, UTC day)
	// 3. 每日访问上限
	n, err = g.store.Incr(ctx, dailyKey(grant.Token, now), dailyTTL)
	if err != nil {
		return nil, errors.Wrap(err, "daily counter")
	}
	adm.DailyCount = n
	if n > adm.DailyLimit {
		g.reject(grant, req.Address, "daily")
		return adm, domain.ErrQuotaExceeded
	}

	// 4. Session marker, bookkeeping only
	// 4. 会话标记，仅记录不拒绝
	started, reset, err := g.sessionMarker(ctx, sessionKey(req.Address, grant.Token), cfg.maxSession(grant.MaxSessionDuration), now)
	if err != nil {
		return nil, errors.Wrap(err, "session marker")
	}
	adm.SessionStartedAt = started
	adm.SessionReset = reset

	// 5. Geo allow list
	// 5. 地理位置白名单
	if cfg.GeoEnabled && g.locator != nil {
		country, err := g.locator.Country(ctx, req.Address)
		if err != nil {
			return nil, errors.Wrap(err, "geo lookup")
		}
		adm.Country = country
		if !geo.Allowed(country, cfg.countries(grant.AllowedCountries)) {
			g.logger.Info("share access rejected",
				zap.String(logger.FieldToken, grant.Token),
				zap.String(logger.FieldIP, req.Address),
				zap.String(logger.FieldCountry, country),
				zap.String(logger.FieldReason, "geo"))
			return adm, domain.ErrGeoRestricted
		}
	}

	return adm, nil
}

func (g *quotaGuard) checkCapacity(ctx context.Context, grant *domain.ShareGrant, uid *int64) error {
	if uid != nil {
		active, err := g.participants.IsActive(ctx, grant.TodoListID, *uid)
		if err != nil {
			return errors.Wrap(err, "participant lookup")
		}
		if active {
			return nil
		}
	}
	count, err := g.participants.CountActive(ctx, grant.TodoListID)
	if err != nil {
		return errors.Wrap(err, "participant count")
	}
	if count >= int64(g.config.Collaborative.maxConcurrent(grant.MaxConcurrentUsers)) {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// sessionMarker returns the session start, restarting it once older than limit
// sessionMarker 返回会话开始时间，超过上限时重新开始
func (g *quotaGuard) sessionMarker(ctx context.Context, key string, limit time.Duration, now time.Time) (time.Time, bool, error) {
	value := strconv.FormatInt(now.Unix(), 10)
	ok, err := g.store.SetNX(ctx, key, value, limit)
	if err != nil {
		return time.Time{}, false, err
	}
	if ok {
		return now, false, nil
	}

	raw, found, err := g.store.Get(ctx, key)
	if err != nil {
		return time.Time{}, false, err
	}
	if found {
		if ts, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			started := time.Unix(ts, 0).UTC()
			if now.Sub(started) < limit {
				return started, false, nil
			}
		}
	}

	if err := g.store.Del(ctx, key); err != nil {
		return time.Time{}, false, err
	}
	if _, err := g.store.SetNX(ctx, key, value, limit); err != nil {
		return time.Time{}, false, err
	}
	return now, true, nil
}

func (g *quotaGuard) reject(grant *domain.ShareGrant, address, reason string) {
	g.logger.Info("share access rejected",
		zap.String(logger.FieldToken, grant.Token),
		zap.String(logger.FieldIP, address),
		zap.String(logger.FieldReason, reason))
}
