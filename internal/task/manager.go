package task

import (
	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		app:       a,
	}
}

// RegisterTasks builds every registered task, a failing factory aborts registration
// RegisterTasks 创建所有已注册任务，任一工厂失败即返回错误
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		if t == nil {
			continue
		}
		m.scheduler.AddTask(t)
		m.logger.Info("task registered", zap.String("name", t.Name()))
	}
	return nil
}

// Scheduler 返回内部调度器
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
