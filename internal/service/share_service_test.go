package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	friend := f.seedUser(t, "Ayu", "ayu@uni.test")
	list := f.seedList(t, owner.ID)

	resp, err := f.share.Create(ctx, owner.ID, list.ID, &dto.ShareCreateRequest{
		PermissionType:   "can_view",
		AllowedCountries: "id, sg",
	}, "http://uni.test/", "10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, resp.Token, 32)
	assert.Equal(t, "http://uni.test/shared/"+resp.Token, resp.ShareURL)
	assert.Equal(t, "can_view", resp.PermissionType)

	grant, err := f.grants.GetByToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, grant.IsPublic())
	assert.Equal(t, []string{"ID", "SG"}, grant.AllowedCountries)

	targeted, err := f.share.Create(ctx, owner.ID, list.ID, &dto.ShareCreateRequest{
		PermissionType:     "can_edit",
		SharedWithEmail:    "AYU@uni.test",
		MaxSessionDuration: 600,
	}, "http://uni.test", "")
	require.NoError(t, err)
	grant, err = f.grants.GetByToken(ctx, targeted.Token)
	require.NoError(t, err)
	require.NotNil(t, grant.SharedWithUserID)
	assert.Equal(t, friend.ID, *grant.SharedWithUserID)
	assert.Equal(t, 10*time.Minute, grant.MaxSessionDuration)

	entries, err := f.activityRepo.Recent(ctx, list.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionPermissionGranted, entries[0].Action)
	assert.Equal(t, domain.ActionListShared, entries[1].Action)
}

func TestShareService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	other := f.seedUser(t, "Other", "other@uni.test")
	list := f.seedList(t, owner.ID)
	past := f.clock.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		uid     int64
		listID  int64
		params  dto.ShareCreateRequest
		wantErr error
	}{
		{"not owner", other.ID, list.ID, dto.ShareCreateRequest{PermissionType: "can_view"}, domain.ErrForbidden},
		{"missing list", owner.ID, list.ID + 99, dto.ShareCreateRequest{PermissionType: "can_view"}, domain.ErrListNotFound},
		{"bad permission", owner.ID, list.ID, dto.ShareCreateRequest{PermissionType: "can_admin"}, domain.ErrValidation},
		{"expired", owner.ID, list.ID, dto.ShareCreateRequest{PermissionType: "can_view", ExpiresAt: &past}, domain.ErrValidation},
		{"unknown email", owner.ID, list.ID, dto.ShareCreateRequest{PermissionType: "can_view", SharedWithEmail: "nobody@uni.test"}, domain.ErrValidation},
		{"share with self", owner.ID, list.ID, dto.ShareCreateRequest{PermissionType: "can_view", SharedWithEmail: "owner@uni.test"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.share.Create(ctx, tt.uid, tt.listID, &tt.params, "http://uni.test", "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShareService_RevokeAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	other := f.seedUser(t, "Other", "other@uni.test")
	list := f.seedList(t, owner.ID)
	f.seedGrant(t, list, domain.PermissionView, "abc123")

	assert.ErrorIs(t, f.share.Revoke(ctx, other.ID, "abc123", ""), domain.ErrForbidden)
	assert.ErrorIs(t, f.share.Revoke(ctx, owner.ID, "nope", ""), domain.ErrShareNotFound)
	require.NoError(t, f.share.Revoke(ctx, owner.ID, "abc123", ""))

	_, err := f.access.Resolve(ctx, "abc123", nil, domain.ActionView)
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	shares, err := f.share.ListByList(ctx, owner.ID, list.ID, "http://uni.test")
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.False(t, shares[0].IsActive)
	assert.Equal(t, "http://uni.test/shared/abc123", shares[0].ShareURL)

	_, err = f.share.ListByList(ctx, other.ID, list.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShareService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	list := f.seedList(t, owner.ID)
	f.seedGrant(t, list, domain.PermissionView, "abc123", func(g *domain.ShareGrant) { g.AllowedCountries = []string{"ID"} })

	_, err := f.todo.CreateItem(ctx, list.ID, &owner.ID, &dto.TodoItemCreateRequest{Title: "Outline"}, "")
	require.NoError(t, err)
	_, err = f.file.Upload(ctx, list.ID, &owner.ID, UploadInput{Name: "notes.txt", Size: 5, Body: strings.NewReader("hello")}, "")
	require.NoError(t, err)

	anon := f.resolve(t, "abc123", nil, domain.ActionView)
	board, err := f.share.Dashboard(ctx, anon)
	require.NoError(t, err)
	assert.Equal(t, "Capstone", board.TodoList.Title)
	assert.Len(t, board.Items, 1)
	assert.Len(t, board.Files, 1)
	assert.False(t, board.CanEdit)
	assert.False(t, board.IsOwner)
	assert.Equal(t, "can_view", board.PermissionType)
	assert.Nil(t, board.Share.AllowedCountries)
	assert.Len(t, board.RecentActivities, 2)

	mine := f.resolve(t, "abc123", &owner.ID, domain.ActionView)
	board, err = f.share.Dashboard(ctx, mine)
	require.NoError(t, err)
	assert.True(t, board.CanEdit)
	assert.True(t, board.IsOwner)
	assert.Equal(t, []string{"ID"}, board.Share.AllowedCountries)
}

func TestShareService_Updates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	list := f.seedList(t, owner.ID)
	f.seedGrant(t, list, domain.PermissionView, "abc123")
	_, err := f.todo.CreateItem(ctx, list.ID, &owner.ID, &dto.TodoItemCreateRequest{Title: "Outline"}, "")
	require.NoError(t, err)

	access := f.resolve(t, "abc123", nil, domain.ActionView)
	all, err := f.share.Updates(ctx, access, nil)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
	assert.Len(t, all.Activities, 1)
	assert.True(t, all.Timestamp.Equal(f.clock.Now()))

	future := time.Now().UTC().Add(time.Hour)
	none, err := f.share.Updates(ctx, access, &future)
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Empty(t, none.Files)
}

func TestParseCountries(t *testing.T) {
	assert.Equal(t, []string{"ID", "MY"}, ParseCountries(" id ,my,, "))
	assert.Nil(t, ParseCountries(""))
}
