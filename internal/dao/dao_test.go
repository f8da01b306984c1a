package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        nowUTC,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db))
	return New(db, nil)
}

func seedList(t *testing.T, d *Dao, owner int64) *domain.TodoList {
	t.Helper()
	list := &domain.TodoList{UserID: owner, Title: "Thesis", TaskType: domain.TaskGroup, Priority: domain.PriorityHigh, Status: domain.TodoPending}
	require.NoError(t, NewTodoListRepository(d).Create(context.Background(), list))
	return list
}

func TestShareGrantRepository(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewShareGrantRepository(d)
	list := seedList(t, d, 1)

	_, err := repo.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	g := &domain.ShareGrant{
		TodoListID:         list.ID,
		SharedByUserID:     1,
		PermissionType:     domain.PermissionView,
		Token:              "abc123",
		IsActive:           true,
		MaxSessionDuration: 30 * time.Minute,
		AllowedCountries:   []string{"ID", "SG"},
	}
	require.NoError(t, repo.Create(ctx, g))
	assert.NotZero(t, g.ID)

	got, err := repo.GetByToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionView, got.PermissionType)
	assert.Equal(t, []string{"ID", "SG"}, got.AllowedCountries)
	assert.Equal(t, 30*time.Minute, got.MaxSessionDuration)
	assert.Nil(t, got.SharedWithUserID)
	assert.True(t, got.IsActive)

	require.NoError(t, repo.Deactivate(ctx, g.ID))
	got, err = repo.GetByToken(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	all, err := repo.ListByList(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestParticipantRepository_UpsertNeverDuplicates(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewParticipantRepository(d)
	now := time.Now().UTC().Truncate(time.Second)

	p := &domain.Participant{
		TodoListID: 10, UserID: 2, ShareGrantID: 1, PermissionType: domain.PermissionView,
		Status: domain.StatusOnline, SessionID: "s1", IsActive: true, LastSeenAt: now, JoinedAt: now,
	}
	first, err := repo.Upsert(ctx, p)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	p.SessionID = "s2"
	p.LastSeenAt = later
	p.JoinedAt = later
	second, err := repo.Upsert(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "s2", second.SessionID)
	assert.True(t, second.JoinedAt.Equal(later))

	all, err := repo.ListByList(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := repo.CountActive(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, err := repo.IsActive(ctx, 10, 2)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.MarkLeft(ctx, 10, 2, later))
	got, err := repo.Get(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffline, got.Status)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.LeftAt)

	_, err = repo.Get(ctx, 10, 99)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestParticipantRepository_DeactivateStale(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewParticipantRepository(d)
	now := time.Now().UTC()

	for uid, seen := range map[int64]time.Time{1: now.Add(-time.Hour), 2: now} {
		_, err := repo.Upsert(ctx, &domain.Participant{
			TodoListID: 5, UserID: uid, PermissionType: domain.PermissionEdit,
			Status: domain.StatusOnline, IsActive: true, LastSeenAt: seen, JoinedAt: seen,
		})
		require.NoError(t, err)
	}

	n, err := repo.DeactivateStale(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := repo.CountActive(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPresenceRepository(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewPresenceRepository(d)
	now := time.Now().UTC()

	rec := &domain.PresenceRecord{UserID: 3, TodoListID: 7, SessionID: "tab-1", Status: domain.StatusOnline, LastActivityAt: now}
	require.NoError(t, repo.Upsert(ctx, rec))
	rec.CurrentActivity = domain.ActivityTyping
	require.NoError(t, repo.Upsert(ctx, rec))
	require.NoError(t, repo.Upsert(ctx, &domain.PresenceRecord{UserID: 3, TodoListID: 7, SessionID: "tab-2", Status: domain.StatusAway, LastActivityAt: now.Add(-time.Hour)}))

	got, err := repo.Get(ctx, 3, 7, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityTyping, got.CurrentActivity)

	_, err = repo.Get(ctx, 3, 7, "nope")
	assert.ErrorIs(t, err, domain.ErrPresenceNotFound)

	live, err := repo.CountLive(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), live)

	online, err := repo.CountOnline(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), online)

	recent, err := repo.ListSince(ctx, 7, now.Add(-10*time.Minute))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "tab-1", recent[0].SessionID)

	got.Status = domain.StatusOffline
	got.LastActivityAt = now.Add(-48 * time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	live, err = repo.CountLive(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), live)

	deleted, err := repo.DeleteOfflineBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestActivityRepository_NewestFirst(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewActivityRepository(d)
	base := time.Now().UTC().Add(-time.Hour)
	uid := int64(4)

	kinds := []domain.ActionKind{domain.ActionUserJoined, domain.ActionItemCreated, domain.ActionKind("custom_kind")}
	for i, k := range kinds {
		require.NoError(t, repo.Append(ctx, &domain.ActivityEntry{
			TodoListID: 1, UserID: &uid, Action: k,
			Data:      map[string]any{"item_title": "Report"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.Recent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionKind("custom_kind"), got[0].Action)
	assert.Equal(t, domain.ActionItemCreated, got[1].Action)
	assert.Equal(t, "Report", got[1].Data["item_title"])
	require.NotNil(t, got[1].UserID)
	assert.Equal(t, uid, *got[1].UserID)
}

func TestTodoListRepository_DeleteCascades(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	lists := NewTodoListRepository(d)
	items := NewTodoItemRepository(d)
	files := NewFileRepository(d)
	grants := NewShareGrantRepository(d)
	participants := NewParticipantRepository(d)

	list := seedList(t, d, 1)
	require.NoError(t, items.Create(ctx, &domain.TodoItem{TodoListID: list.ID, Title: "Draft"}))
	require.NoError(t, files.Create(ctx, &domain.File{TodoListID: list.ID, OriginalName: "a.pdf", StoredPath: "collaborative/1/x.pdf", Size: 3}))
	require.NoError(t, grants.Create(ctx, &domain.ShareGrant{TodoListID: list.ID, SharedByUserID: 1, PermissionType: domain.PermissionEdit, Token: "t1", IsActive: true}))
	_, err := participants.Upsert(ctx, &domain.Participant{TodoListID: list.ID, UserID: 2, PermissionType: domain.PermissionEdit, Status: domain.StatusOnline, IsActive: true})
	require.NoError(t, err)

	require.NoError(t, lists.Delete(ctx, list.ID))

	_, err = lists.GetByID(ctx, list.ID)
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	_, err = grants.GetByToken(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)
	remaining, err := items.ListByList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	n, err := participants.CountActive(ctx, list.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, lists.Delete(ctx, list.ID), domain.ErrListNotFound)
}

func TestTodoRepositories_CRUD(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	lists := NewTodoListRepository(d)
	items := NewTodoItemRepository(d)
	list := seedList(t, d, 9)
	seedList(t, d, 9)
	seedList(t, d, 8)

	mine, err := lists.ListByUser(ctx, 9, 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	count, err := lists.CountByUser(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list.Title = "Thesis v2"
	list.Status = domain.TodoInProgress
	require.NoError(t, lists.Update(ctx, list))
	got, err := lists.GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thesis v2", got.Title)
	assert.Equal(t, domain.TodoInProgress, got.Status)

	item := &domain.TodoItem{TodoListID: list.ID, Title: "Outline"}
	require.NoError(t, items.Create(ctx, item))
	item.IsCompleted = true
	require.NoError(t, items.Update(ctx, item))
	gotItem, err := items.GetByID(ctx, list.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, gotItem.IsCompleted)

	_, err = items.GetByID(ctx, list.ID+100, item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, items.Delete(ctx, list.ID, item.ID))
	assert.ErrorIs(t, items.Delete(ctx, list.ID, item.ID), domain.ErrItemNotFound)
}

func TestFileRepository_Downloads(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	files := NewFileRepository(d)

	f := &domain.File{TodoListID: 2, UserID: 1, OriginalName: "notes.txt", StoredPath: "collaborative/2/abc.txt", MimeType: "text/plain", Size: 5}
	require.NoError(t, files.Create(ctx, f))
	require.NoError(t, files.IncrementDownloads(ctx, f.ID))
	require.NoError(t, files.IncrementDownloads(ctx, f.ID))

	got, err := files.GetByID(ctx, 2, f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.DownloadCount)
	assert.Equal(t, "collaborative/2/abc.txt", got.StoredPath)

	require.NoError(t, files.Delete(ctx, 2, f.ID))
	_, err = files.GetByID(ctx, 2, f.ID)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestUserAndCourseRepositories(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	users := NewUserRepository(d)
	courses := NewCourseRepository(d)

	u := &domain.User{Name: "Ayu", Email: "Ayu@Campus.ac.id"}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByEmail(ctx, "ayu@campus.ac.id")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ayu", got.Name)

	_, err = users.GetByEmail(ctx, "nobody@campus.ac.id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	byID, err := users.GetByIDs(ctx, []int64{u.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	c := &domain.Course{Code: "IF101", Name: "Algorithms"}
	require.NoError(t, courses.Create(ctx, c))
	require.NoError(t, courses.Enroll(ctx, u.ID, c.ID))
	require.NoError(t, courses.Enroll(ctx, u.ID, c.ID))

	ok, err := courses.IsEnrolled(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = courses.IsEnrolled(ctx, u.ID+1, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
