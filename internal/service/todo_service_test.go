package service

import (
	"context"
	"strings"
	"testing"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoService_CreateRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedUser(t, "Student", "student@uni.test")
	course := &domain.Course{Code: "CS101", Name: "Intro"}
	require.NoError(t, f.courses.Create(ctx, course))

	_, err := f.todo.Create(ctx, student.ID, &dto.TodoListCreateRequest{Title: "Lab 1", CourseID: &course.ID})
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)

	require.NoError(t, f.courses.Enroll(ctx, student.ID, course.ID))
	list, err := f.todo.Create(ctx, student.ID, &dto.TodoListCreateRequest{Title: "Lab 1", CourseID: &course.ID, Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", list.Priority)
	assert.Equal(t, string(domain.TaskIndividual), list.TaskType)
	assert.Equal(t, string(domain.TodoPending), list.Status)

	personal, err := f.todo.Create(ctx, student.ID, &dto.TodoListCreateRequest{Title: "Groceries"})
	require.NoError(t, err)
	assert.True(t, personal.IsPersonal)

	lists, total, err := f.todo.List(ctx, student.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
	assert.Equal(t, int64(2), total)
}

func TestTodoService_UpdateAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	other := f.seedUser(t, "Other", "other@uni.test")
	list := f.seedList(t, owner.ID)

	_, err := f.todo.Get(ctx, other.ID, list.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.todo.Get(ctx, owner.ID, list.ID+50)
	assert.ErrorIs(t, err, domain.ErrListNotFound)

	updated, err := f.todo.Update(ctx, owner.ID, list.ID, &dto.TodoListUpdateRequest{Title: ptr("Final report"), Status: ptr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, "Final report", updated.Title)
	assert.Equal(t, "in_progress", updated.Status)

	got, err := f.todo.Get(ctx, owner.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final report", got.Title)
}

func TestTodoService_ItemLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	list := f.seedList(t, owner.ID)

	item, err := f.todo.CreateItem(ctx, list.ID, &owner.ID, &dto.TodoItemCreateRequest{Title: "Read paper"}, "")
	require.NoError(t, err)

	done, err := f.todo.UpdateItem(ctx, list.ID, item.ID, &owner.ID, &dto.TodoItemUpdateRequest{IsCompleted: ptr(true)}, "")
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.NotNil(t, done.CompletedAt)

	renamed, err := f.todo.UpdateItem(ctx, list.ID, item.ID, &owner.ID, &dto.TodoItemUpdateRequest{Title: ptr("Read two papers")}, "")
	require.NoError(t, err)
	assert.True(t, renamed.IsCompleted)
	assert.Equal(t, "Read two papers", renamed.Title)

	_, err = f.todo.UpdateItem(ctx, list.ID+1, item.ID, &owner.ID, &dto.TodoItemUpdateRequest{}, "")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, f.todo.DeleteItem(ctx, list.ID, item.ID, &owner.ID, ""))
	assert.ErrorIs(t, f.todo.DeleteItem(ctx, list.ID, item.ID, &owner.ID, ""), domain.ErrItemNotFound)

	entries, err := f.activityRepo.Recent(ctx, list.ID, 10)
	require.NoError(t, err)
	kinds := make([]domain.ActionKind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Action)
	}
	assert.Equal(t, []domain.ActionKind{
		domain.ActionItemDeleted,
		domain.ActionItemUpdated,
		domain.ActionItemCompleted,
		domain.ActionItemCreated,
	}, kinds)
}

func TestTodoService_DeleteRemovesStoredFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	list := f.seedList(t, owner.ID)

	file, err := f.file.Upload(ctx, list.ID, &owner.ID, UploadInput{Name: "a.pdf", Size: 3, Body: strings.NewReader("pdf")}, "")
	require.NoError(t, err)
	stored, err := f.files.GetByID(ctx, list.ID, file.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.todo.Delete(ctx, owner.ID+1, list.ID), domain.ErrForbidden)
	require.NoError(t, f.todo.Delete(ctx, owner.ID, list.ID))

	_, err = f.lists.GetByID(ctx, list.ID)
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	_, err = f.disk.Open(ctx, stored.StoredPath)
	assert.Error(t, err)
}
