package task

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PresenceGCTask deletes offline presence rows older than the retention window
// PresenceGCTask 删除超过保留期的离线会话记录
type PresenceGCTask struct {
	repo      domain.PresenceRepository
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	cron      string
	now       func() time.Time
}

// NewPresenceGCTask 创建离线会话清理任务，retention 小于等于 0 时返回 nil
func NewPresenceGCTask(repo domain.PresenceRepository, log *zap.Logger, interval, retention time.Duration, cronSpec string) *PresenceGCTask {
	if retention <= 0 {
		return nil
	}
	return &PresenceGCTask{
		repo:      repo,
		log:       log,
		interval:  interval,
		retention: retention,
		cron:      cronSpec,
		now:       time.Now,
	}
}

func (t *PresenceGCTask) Name() string                { return "PresenceGC" }
func (t *PresenceGCTask) LoopInterval() time.Duration { return t.interval }
func (t *PresenceGCTask) IsStartupRun() bool          { return true }
func (t *PresenceGCTask) CronSpec() string            { return t.cron }

// Run 执行清理
func (t *PresenceGCTask) Run(ctx context.Context) error {
	removed, err := t.repo.DeleteOfflineBefore(ctx, t.now().Add(-t.retention))
	if err != nil {
		return errors.Wrap(err, "delete offline presence")
	}
	if removed > 0 {
		t.log.Info("offline presence removed", zap.String(logger.FieldTask, t.Name()), zap.Int64("count", removed))
	}
	return nil
}

func init() {
	Register(func(a *app.App) (Task, error) {
		cfg := a.Config().Collaborative.PresenceGC
		if cfg.CronSpec != "" {
			if _, err := ParseCron(cfg.CronSpec); err != nil {
				return nil, err
			}
		}
		retention, err := util.ParseDuration(cfg.Retention)
		if err != nil {
			return nil, errors.Wrap(err, "presence-gc retention")
		}
		t := NewPresenceGCTask(a.PresenceRepo, a.Logger(), util.MustParseDuration(cfg.Interval, time.Hour), retention, cfg.CronSpec)
		if t == nil {
			return nil, nil
		}
		return t, nil
	})
}
