package task

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dao"
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/safe_close"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingTask struct {
	runs     atomic.Int32
	interval time.Duration
	startup  bool
	cron     string
	panics   bool
}

func (t *countingTask) Name() string                { return "Counting" }
func (t *countingTask) LoopInterval() time.Duration { return t.interval }
func (t *countingTask) IsStartupRun() bool          { return t.startup }
func (t *countingTask) CronSpec() string            { return t.cron }
func (t *countingTask) Run(context.Context) error {
	t.runs.Add(1)
	if t.panics {
		panic("boom")
	}
	return nil
}

func TestScheduler_LoopAndClose(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc)
	task := &countingTask{interval: 10 * time.Millisecond, startup: true}
	s.AddTask(task)
	s.Start()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
	after := task.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, task.runs.Load())
}

func TestScheduler_StartupOnly(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc)
	task := &countingTask{startup: true}
	s.AddTask(task)
	s.Start()

	// 无间隔的任务执行一次后即退出，WaitClosed 无需关闭信号
	require.NoError(t, sc.WaitClosed())
	assert.Equal(t, int32(1), task.runs.Load())
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.New(core), sc)
	task := &countingTask{interval: 10 * time.Millisecond, startup: true, panics: true}
	s.AddTask(task)
	s.Start()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
	assert.NotZero(t, logs.FilterMessage("task panic").Len())
}

func TestScheduler_InvalidCronFallsBack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.New(core), sc)
	task := &countingTask{interval: 10 * time.Millisecond, cron: "not a cron"}
	s.AddTask(task)
	s.Start()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
	assert.Equal(t, 1, logs.FilterMessage("task cron invalid, falling back to interval").Len())
}

func TestParseCron(t *testing.T) {
	schedule, err := ParseCron("*/5 * * * *")
	require.NoError(t, err)
	from := time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC), schedule.Next(from))

	_, err = ParseCron("@hourly")
	assert.NoError(t, err)
	_, err = ParseCron("61 * * * *")
	assert.Error(t, err)
}

type fakePresenceRepo struct {
	domain.PresenceRepository
	before time.Time
	err    error
}

func (f *fakePresenceRepo) DeleteOfflineBefore(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 2, f.err
}

type fakeParticipantRepo struct {
	domain.ParticipantRepository
	before time.Time
}

func (f *fakeParticipantRepo) DeactivateStale(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 1, nil
}

func TestPresenceGCTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakePresenceRepo{}

	assert.Nil(t, NewPresenceGCTask(repo, zap.NewNop(), time.Hour, 0, ""))

	task := NewPresenceGCTask(repo, zap.NewNop(), time.Hour, 48*time.Hour, "0 3 * * *")
	task.now = func() time.Time { return now }
	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, now.Add(-48*time.Hour), repo.before)
	assert.Equal(t, "0 3 * * *", task.CronSpec())

	repo.err = errors.New("db down")
	assert.ErrorContains(t, task.Run(context.Background()), "db down")
}

func TestStaleSweepTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeParticipantRepo{}
	task := NewStaleSweepTask(repo, zap.NewNop(), time.Minute, 10*time.Minute, "")
	task.now = func() time.Time { return now }

	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, now.Add(-10*time.Minute), repo.before)
	assert.False(t, task.IsStartupRun())
}

func TestCounterSweepTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := counter.NewMemoryStore(counter.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	_, err := store.Incr(ctx, "a", time.Second)
	require.NoError(t, err)
	_, err = store.Incr(ctx, "b", time.Hour)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	task := &CounterSweepTask{store: store, log: zap.NewNop()}
	require.NoError(t, task.Run(ctx))
	assert.Equal(t, 1, store.Len())
}

func newTestApp(t *testing.T, extra string) *app.App {
	t.Helper()
	cfg, err := app.ParseConfig([]byte(`
database:
  type: sqlite
  path: "file::memory:"
  max-idle-conns: 1
  max-open-conns: 1
storage:
  save-path: "` + t.TempDir() + `"
` + extra))
	require.NoError(t, err)

	db, err := dao.NewDBEngine(cfg.Database, "test")
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func taskNames(m *Manager) []string {
	var names []string
	for _, task := range m.Scheduler().Tasks() {
		names = append(names, task.Name())
	}
	return names
}

func TestManager_RegisterTasks(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), newTestApp(t, ""))
		require.NoError(t, m.RegisterTasks())
		names := taskNames(m)
		assert.Contains(t, names, "PresenceGC")
		assert.Contains(t, names, "CounterSweep")
		assert.NotContains(t, names, "StaleSweep")
	})

	t.Run("stale sweep enabled", func(t *testing.T) {
		m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), newTestApp(t, `
collaborative:
  stale-sweep:
    enabled: true
    after: 15m
`))
		require.NoError(t, m.RegisterTasks())
		assert.Contains(t, taskNames(m), "StaleSweep")
	})

	t.Run("invalid cron", func(t *testing.T) {
		m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), newTestApp(t, `
collaborative:
  presence-gc:
    cron-spec: "every day"
`))
		assert.Error(t, m.RegisterTasks())
	})
}
