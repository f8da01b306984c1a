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

// StaleSweepTask flips participants that stopped sending heartbeats to offline
// so their slot counts toward capacity again
// StaleSweepTask 将长时间无心跳的参与者置为离线，释放并发名额
type StaleSweepTask struct {
	repo     domain.ParticipantRepository
	log      *zap.Logger
	interval time.Duration
	after    time.Duration
	cron     string
	now      func() time.Time
}

// NewStaleSweepTask 创建过期参与者清理任务
func NewStaleSweepTask(repo domain.ParticipantRepository, log *zap.Logger, interval, after time.Duration, cronSpec string) *StaleSweepTask {
	return &StaleSweepTask{
		repo:     repo,
		log:      log,
		interval: interval,
		after:    after,
		cron:     cronSpec,
		now:      time.Now,
	}
}

func (t *StaleSweepTask) Name() string                { return "StaleSweep" }
func (t *StaleSweepTask) LoopInterval() time.Duration { return t.interval }
func (t *StaleSweepTask) IsStartupRun() bool          { return false }
func (t *StaleSweepTask) CronSpec() string            { return t.cron }

// Run 执行清理
func (t *StaleSweepTask) Run(ctx context.Context) error {
	n, err := t.repo.DeactivateStale(ctx, t.now().Add(-t.after))
	if err != nil {
		return errors.Wrap(err, "deactivate stale participants")
	}
	if n > 0 {
		t.log.Info("stale participants deactivated", zap.String(logger.FieldTask, t.Name()), zap.Int64("count", n))
	}
	return nil
}

func init() {
	Register(func(a *app.App) (Task, error) {
		cfg := a.Config().Collaborative.StaleSweep
		if !cfg.Enabled {
			return nil, nil
		}
		if cfg.CronSpec != "" {
			if _, err := ParseCron(cfg.CronSpec); err != nil {
				return nil, err
			}
		}
		after, err := util.ParseDuration(cfg.After)
		if err != nil || after <= 0 {
			return nil, errors.Errorf("stale-sweep after %q is not a positive duration", cfg.After)
		}
		return NewStaleSweepTask(a.ParticipantRepo, a.Logger(), util.MustParseDuration(cfg.Interval, time.Minute), after, cfg.CronSpec), nil
	})
}
