package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/dao"
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/storage/local_fs"
	"github.com/haierkeys/uni-task-service/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fixture wires every service on an in-memory sqlite database
type fixture struct {
	dao   *dao.Dao
	cfg   *ServiceConfig
	clock *testClock
	store *counter.MemoryStore
	disk  *local_fs.LocalFS
	queue *writequeue.Manager

	grants       domain.ShareGrantRepository
	lists        domain.TodoListRepository
	items        domain.TodoItemRepository
	files        domain.FileRepository
	users        domain.UserRepository
	courses      domain.CourseRepository
	participants domain.ParticipantRepository
	presences    domain.PresenceRepository
	activityRepo domain.ActivityRepository

	activities ActivityService
	access     AccessResolver
	quota      QuotaGuard
	presence   PresenceService
	share      ShareService
	todo       TodoService
	file       FileService
	user       UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := dao.NewDBEngine(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         "file::memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	d := dao.New(db, nil)
	require.NoError(t, d.Migrate())

	disk, err := local_fs.NewClient(&local_fs.Config{SavePath: t.TempDir()})
	require.NoError(t, err)

	f := &fixture{
		dao:   d,
		cfg:   DefaultServiceConfig(),
		clock: newTestClock(),
		disk:  disk,
		queue: writequeue.New(nil, nil),
	}
	f.cfg.Now = f.clock.Now
	f.cfg.Collaborative.GeoEnabled = false
	f.store = counter.NewMemoryStore(counter.WithClock(f.clock.Now))
	t.Cleanup(func() { _ = f.queue.Shutdown(context.Background()) })

	f.grants = dao.NewShareGrantRepository(d)
	f.lists = dao.NewTodoListRepository(d)
	f.items = dao.NewTodoItemRepository(d)
	f.files = dao.NewFileRepository(d)
	f.users = dao.NewUserRepository(d)
	f.courses = dao.NewCourseRepository(d)
	f.participants = dao.NewParticipantRepository(d)
	f.presences = dao.NewPresenceRepository(d)
	f.activityRepo = dao.NewActivityRepository(d)

	log := zap.NewNop()
	f.activities = NewActivityService(f.activityRepo, f.users, log, f.cfg)
	f.access = NewAccessResolver(f.grants, f.lists, log, f.cfg)
	f.quota = NewQuotaGuard(f.store, f.participants, nil, log, f.cfg)
	f.presence = NewPresenceService(f.participants, f.presences, f.users, f.activities, f.queue, log, f.cfg)
	f.share = NewShareService(f.grants, f.lists, f.items, f.files, f.users, f.participants, f.activities, log, f.cfg)
	f.todo = NewTodoService(f.lists, f.items, f.files, f.courses, f.activities, f.disk, log, f.cfg)
	f.file = NewFileService(f.files, f.activities, f.disk, log, f.cfg)
	f.user = NewUserService(f.users, log)
	return f
}

func (f *fixture) seedUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) seedList(t *testing.T, owner int64) *domain.TodoList {
	t.Helper()
	list := &domain.TodoList{
		UserID:   owner,
		Title:    "Capstone",
		TaskType: domain.TaskGroup,
		Priority: domain.PriorityHigh,
		Status:   domain.TodoPending,
	}
	require.NoError(t, f.lists.Create(context.Background(), list))
	return list
}

func (f *fixture) seedGrant(t *testing.T, list *domain.TodoList, perm domain.Permission, token string, mutate ...func(*domain.ShareGrant)) *domain.ShareGrant {
	t.Helper()
	g := &domain.ShareGrant{
		TodoListID:     list.ID,
		SharedByUserID: list.UserID,
		PermissionType: perm,
		Token:          token,
		IsActive:       true,
	}
	for _, fn := range mutate {
		fn(g)
	}
	require.NoError(t, f.grants.Create(context.Background(), g))
	return g
}

func (f *fixture) resolve(t *testing.T, token string, requester *int64, action domain.Action) *Access {
	t.Helper()
	access, err := f.access.Resolve(context.Background(), token, requester, action)
	require.NoError(t, err)
	return access
}

func ptr[T any](v T) *T {
	return &v
}
