package task

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/safe_close"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask is a Task whose cron expression, when non-empty, replaces LoopInterval
// CronTask 返回非空 cron 表达式时以其代替 LoopInterval 调度
type CronTask interface {
	Task
	CronSpec() string
}

// cronParser 标准五段式 cron 表达式
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron validates a five field cron expression
// ParseCron 校验五段式 cron 表达式
func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse cron %q", expr)
	}
	return schedule, nil
}

// Scheduler 任务调度器
type Scheduler struct {
	log     *zap.Logger
	tasks   []Task
	sc      *safe_close.SafeClose
	timeout time.Duration
}

// NewScheduler 创建任务调度器
func NewScheduler(log *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		log:     log,
		tasks:   make([]Task, 0),
		sc:      sc,
		timeout: 5 * time.Minute,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Tasks returns the scheduled tasks in insertion order
func (s *Scheduler) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.log.Info("no tasks to schedule")
		return
	}

	s.log.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// nextFunc returns the delay until the next run, ok is false when the task only runs at startup
func (s *Scheduler) nextFunc(task Task) (func(now time.Time) time.Duration, bool) {
	if ct, ok := task.(CronTask); ok && ct.CronSpec() != "" {
		schedule, err := ParseCron(ct.CronSpec())
		if err != nil {
			s.log.Error("task cron invalid, falling back to interval", zap.String(logger.FieldTask, task.Name()), zap.Error(err))
		} else {
			return func(now time.Time) time.Duration { return schedule.Next(now).Sub(now) }, true
		}
	}
	interval := task.LoopInterval()
	if interval <= 0 {
		return nil, false
	}
	return func(time.Time) time.Duration { return interval }, true
}

// runOnce 执行一次任务，捕获 panic
func (s *Scheduler) runOnce(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("task panic",
				zap.String(logger.FieldTask, task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.log.Debug("task running", zap.String(logger.FieldTask, task.Name()), zap.String("mode", mode))
	if err := task.Run(ctx); err != nil {
		s.log.Error("task running error",
			zap.String(logger.FieldTask, task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			s.runOnce(task, "startup")
		}

		next, ok := s.nextFunc(task)
		if !ok {
			return
		}

		timer := time.NewTimer(next(time.Now()))
		defer timer.Stop()

		// 定时执行
		for {
			select {
			case <-timer.C:
				s.runOnce(task, "loop")
				timer.Reset(next(time.Now()))
			case <-closeSignal:
				s.log.Info("task stopped", zap.String(logger.FieldTask, task.Name()))
				return
			}
		}
	})
}
