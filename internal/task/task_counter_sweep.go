package task

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"go.uber.org/zap"
)

// CounterSweepTask evicts expired keys from the in-process counter store
// CounterSweepTask 清理进程内计数存储中已过期的键
type CounterSweepTask struct {
	store *counter.MemoryStore
	log   *zap.Logger
}

func (t *CounterSweepTask) Name() string                { return "CounterSweep" }
func (t *CounterSweepTask) LoopInterval() time.Duration { return 5 * time.Minute }
func (t *CounterSweepTask) IsStartupRun() bool          { return false }

// Run 执行清理
func (t *CounterSweepTask) Run(context.Context) error {
	if n := t.store.Sweep(); n > 0 {
		t.log.Debug("expired counters removed", zap.String(logger.FieldTask, t.Name()), zap.Int("count", n))
	}
	return nil
}

func init() {
	Register(func(a *app.App) (Task, error) {
		// Redis 自带过期淘汰
		store, ok := a.Counter.(*counter.MemoryStore)
		if !ok {
			return nil, nil
		}
		return &CounterSweepTask{store: store, log: a.Logger()}, nil
	})
}
