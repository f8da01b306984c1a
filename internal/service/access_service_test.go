package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	const owner int64 = 1
	var target int64 = 7

	tests := []struct {
		name      string
		grant     domain.ShareGrant
		requester *int64
		action    domain.Action
		want      domain.Permission
		wantErr   error
	}{
		{"inactive grant", domain.ShareGrant{PermissionType: domain.PermissionEdit}, ptr(owner), domain.ActionView, "", domain.ErrShareNotFound},
		{"expired grant", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, ExpiresAt: &past}, nil, domain.ActionView, "", domain.ErrShareNotFound},
		{"not yet expired", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, ExpiresAt: &future}, nil, domain.ActionView, domain.PermissionView, nil},
		{"owner edits view grant", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true}, ptr(owner), domain.ActionEdit, domain.PermissionEdit, nil},
		{"anonymous views public", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true}, nil, domain.ActionView, domain.PermissionView, nil},
		{"anonymous edits public", domain.ShareGrant{PermissionType: domain.PermissionEdit, IsActive: true}, nil, domain.ActionEdit, "", domain.ErrAuthRequired},
		{"user edits view public", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true}, ptr[int64](9), domain.ActionEdit, "", domain.ErrForbidden},
		{"user edits edit public", domain.ShareGrant{PermissionType: domain.PermissionEdit, IsActive: true}, ptr[int64](9), domain.ActionEdit, domain.PermissionEdit, nil},
		{"anonymous views edit public", domain.ShareGrant{PermissionType: domain.PermissionEdit, IsActive: true}, nil, domain.ActionView, domain.PermissionEdit, nil},
		{"anonymous on targeted", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, SharedWithUserID: &target}, nil, domain.ActionView, "", domain.ErrAuthRequired},
		{"other user on targeted", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, SharedWithUserID: &target}, ptr[int64](9), domain.ActionView, "", domain.ErrForbidden},
		{"target views targeted", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, SharedWithUserID: &target}, &target, domain.ActionView, domain.PermissionView, nil},
		{"target edits view targeted", domain.ShareGrant{PermissionType: domain.PermissionView, IsActive: true, SharedWithUserID: &target}, &target, domain.ActionEdit, "", domain.ErrForbidden},
		{"zero requester is anonymous", domain.ShareGrant{PermissionType: domain.PermissionEdit, IsActive: true}, ptr[int64](0), domain.ActionEdit, "", domain.ErrAuthRequired},
		{"unknown permission", domain.ShareGrant{PermissionType: "can_admin", IsActive: true}, nil, domain.ActionView, "", domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(&tt.grant, owner, tt.requester, tt.action, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	const owner int64 = 1

	permOf := func(edit bool) domain.Permission {
		if edit {
			return domain.PermissionEdit
		}
		return domain.PermissionView
	}

	// 不可用的授权对任何请求者都不存在
	properties.Property("unusable grants resolve to not found", prop.ForAll(
		func(uid int64, edit bool, expiredBy int64) bool {
			exp := now.Add(-time.Duration(expiredBy) * time.Second)
			inactive := &domain.ShareGrant{PermissionType: permOf(edit), IsActive: false}
			expired := &domain.ShareGrant{PermissionType: permOf(edit), IsActive: true, ExpiresAt: &exp}
			for _, g := range []*domain.ShareGrant{inactive, expired} {
				for _, a := range []domain.Action{domain.ActionView, domain.ActionEdit} {
					if _, err := Decide(g, owner, &uid, a, now); err != domain.ErrShareNotFound {
						return false
					}
				}
			}
			return true
		},
		gen.Int64Range(1, 1000),
		gen.Bool(),
		gen.Int64Range(0, 86400),
	))

	// 所有者在可用授权上总能编辑
	properties.Property("owner always edits usable grants", prop.ForAll(
		func(edit bool, target int64) bool {
			g := &domain.ShareGrant{PermissionType: permOf(edit), IsActive: true, SharedWithUserID: &target}
			perm, err := Decide(g, owner, ptr(owner), domain.ActionEdit, now)
			return err == nil && perm == domain.PermissionEdit
		},
		gen.Bool(),
		gen.Int64Range(2, 1000),
	))

	// 匿名请求永远不能编辑
	properties.Property("anonymous never edits", prop.ForAll(
		func(edit, targeted bool) bool {
			g := &domain.ShareGrant{PermissionType: permOf(edit), IsActive: true}
			if targeted {
				g.SharedWithUserID = ptr[int64](5)
			}
			_, err := Decide(g, owner, nil, domain.ActionEdit, now)
			return err == domain.ErrAuthRequired
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestAccessResolver_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "Owner", "owner@uni.test")
	list := f.seedList(t, owner.ID)
	f.seedGrant(t, list, domain.PermissionView, "abc123")
	f.seedGrant(t, list, domain.PermissionEdit, "edit01", func(g *domain.ShareGrant) { g.IsActive = false })

	_, err := f.access.Resolve(ctx, "", nil, domain.ActionView)
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	_, err = f.access.Resolve(ctx, "missing", nil, domain.ActionView)
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	_, err = f.access.Resolve(ctx, "edit01", &owner.ID, domain.ActionView)
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	access, err := f.access.Resolve(ctx, "abc123", nil, domain.ActionView)
	require.NoError(t, err)
	assert.Equal(t, list.ID, access.ListID())
	assert.Equal(t, domain.PermissionView, access.Permission)
	assert.False(t, access.CanEdit())
	assert.False(t, access.IsOwner)

	_, err = f.access.Resolve(ctx, "abc123", nil, domain.ActionEdit)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	access, err = f.access.Resolve(ctx, "abc123", &owner.ID, domain.ActionEdit)
	require.NoError(t, err)
	assert.True(t, access.IsOwner)
	assert.True(t, access.CanEdit())

	// 列表被删除后分享不可用
	require.NoError(t, f.lists.Delete(ctx, list.ID))
	_, err = f.access.Resolve(ctx, "abc123", nil, domain.ActionView)
	assert.ErrorIs(t, err, domain.ErrShareNotFound)
}

func TestAccessResolver_Grant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.seedList(t, 1)
	past := f.clock.Now().Add(-time.Second)
	f.seedGrant(t, list, domain.PermissionView, "live01")
	f.seedGrant(t, list, domain.PermissionView, "old001", func(g *domain.ShareGrant) { g.ExpiresAt = &past })

	g, err := f.access.Grant(ctx, "live01")
	require.NoError(t, err)
	assert.Equal(t, list.ID, g.TodoListID)

	_, err = f.access.Grant(ctx, "old001")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)
}
