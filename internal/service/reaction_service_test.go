package service

import (
	"context"
	"testing"

	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/internal/testutil"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionService_LikeThenDislike(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "fan")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewReactionService(db, newDispatcher())
	ctx := context.Background()

	res, err := svc.React(ctx, ids[1], model.TargetPost, post.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, int64(1), res.LikeCount)

	// 重复点赞不改变计数
	res, err = svc.React(ctx, ids[1], model.TargetPost, post.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LikeCount)

	res, err = svc.React(ctx, ids[1], model.TargetPost, post.ID, model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LikeCount)
	assert.Equal(t, int64(1), res.DislikeCount)
	assert.Equal(t, "dislike", res.Kind)

	got := testutil.Notifications(t, db, ids[0])
	require.Len(t, got, 2)
	assert.Equal(t, model.NotificationLike, got[0].Type)
	assert.Equal(t, model.NotificationDislike, got[1].Type)
	require.NotNil(t, got[1].PostID)
	assert.Equal(t, post.ID, *got[1].PostID)
}

func TestReactionService_RemoveReaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "fan")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewReactionService(db, newDispatcher())
	ctx := context.Background()

	_, err := svc.RemoveReaction(ctx, ids[1], model.TargetPost, post.ID, model.ReactionLike)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.React(ctx, ids[1], model.TargetPost, post.ID, model.ReactionDislike)
	require.NoError(t, err)

	_, err = svc.RemoveReaction(ctx, ids[1], model.TargetPost, post.ID, model.ReactionLike)
	assert.ErrorIs(t, err, ErrReactionStale)

	res, err := svc.RemoveReaction(ctx, ids[1], model.TargetPost, post.ID, model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DislikeCount)
}

func TestReactionService_CommentTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "commenter", "fan")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	comment := testutil.SeedComment(t, db, post.ID, ids[1], "nice")
	svc := NewReactionService(db, newDispatcher())
	ctx := context.Background()

	res, err := svc.React(ctx, ids[2], model.TargetComment, comment.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LikeCount)

	got := testutil.Notifications(t, db, ids[1])
	require.Len(t, got, 1)
	require.NotNil(t, got[0].CommentID)
	assert.Equal(t, comment.ID, *got[0].CommentID)

	_, err = svc.React(ctx, ids[2], model.TargetComment, 404, model.ReactionLike)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.React(ctx, ids[2], model.TargetType("video"), comment.ID, model.ReactionLike)
	assert.ErrorIs(t, err, ErrInvalidReaction)
}

func TestReactionService_SelfReactionNotNotified(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewReactionService(db, newDispatcher())

	_, err := svc.React(context.Background(), ids[0], model.TargetPost, post.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Empty(t, testutil.Notifications(t, db, ids[0]))
}

func TestReactionService_ConcurrentCountersMatchLedger(t *testing.T) {
	db := testutil.NewTestDB(t)
	names := []string{"author", "u1", "u2", "u3", "u4", "u5", "u6"}
	ids := testutil.SeedUsers(t, db, names...)
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewReactionService(db, newDispatcher())
	ctx := context.Background()

	var wg conc.WaitGroup
	for i, uid := range ids[1:] {
		uid := uid
		kind, other := model.ReactionLike, model.ReactionDislike
		if i%2 == 1 {
			kind, other = other, kind
		}
		wg.Go(func() {
			_, err := svc.React(ctx, uid, model.TargetPost, post.ID, kind)
			assert.NoError(t, err)
			_, err = svc.React(ctx, uid, model.TargetPost, post.ID, other)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	repo := repository.NewReactionRepository(db)
	counts, err := repo.Counts(ctx, model.TargetPost, post.ID)
	require.NoError(t, err)
	likes := testutil.CountReactions(t, db, model.TargetPost, post.ID, model.ReactionLike)
	dislikes := testutil.CountReactions(t, db, model.TargetPost, post.ID, model.ReactionDislike)

	assert.Equal(t, likes, counts.LikeCount)
	assert.Equal(t, dislikes, counts.DislikeCount)
	assert.Equal(t, int64(3), counts.LikeCount)
	assert.Equal(t, int64(3), counts.DislikeCount)
}
