package service

import (
	"context"
	"testing"

	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/testutil"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob")
	svc := NewFollowService(db, newDispatcher())
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, ids[0], ids[1]))
	require.NoError(t, svc.Follow(ctx, ids[0], ids[1]))

	got := testutil.Notifications(t, db, ids[1])
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationFollow, got[0].Type)

	ok, err := svc.IsFollowing(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := svc.GetStatus(ctx, ids[1], ids[0])
	require.NoError(t, err)
	assert.False(t, st.Following)
	assert.True(t, st.FollowedBy)

	require.NoError(t, svc.Unfollow(ctx, ids[0], ids[1]))
	require.NoError(t, svc.Unfollow(ctx, ids[0], ids[1]))

	got = testutil.Notifications(t, db, ids[1])
	require.Len(t, got, 2)
	assert.Equal(t, model.NotificationUnfollow, got[1].Type)

	ok, err = svc.IsFollowing(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowService_Rejections(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob")
	svc := NewFollowService(db, newDispatcher())
	rel := NewRelationshipService(db, newDispatcher())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Follow(ctx, ids[0], ids[0]), ErrCannotFollowSelf)
	assert.True(t, apperr.Is(svc.Follow(ctx, ids[0], 404), apperr.KindNotFound))

	_, err := rel.Block(ctx, ids[1], ids[0])
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Follow(ctx, ids[0], ids[1]), ErrFollowBlocked)
}

func TestFollowService_Counts(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob", "carol")
	svc := NewFollowService(db, newDispatcher())
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, ids[0], ids[2]))
	require.NoError(t, svc.Follow(ctx, ids[1], ids[2]))
	require.NoError(t, svc.Follow(ctx, ids[2], ids[0]))

	st, err := svc.GetStatus(ctx, ids[0], ids[2])
	require.NoError(t, err)
	assert.True(t, st.Following)
	assert.True(t, st.FollowedBy)
	assert.Equal(t, int64(2), st.Followers)
	assert.Equal(t, int64(1), st.Followings)
}

func TestFollowService_ConcurrentFollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob")
	svc := NewFollowService(db, newDispatcher())

	var wg conc.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Go(func() {
			assert.NoError(t, svc.Follow(context.Background(), ids[0], ids[1]))
		})
	}
	wg.Wait()

	var edges int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)
	assert.Len(t, testutil.Notifications(t, db, ids[1]), 1)
}
