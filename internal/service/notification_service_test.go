package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_MarkReadAndCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob", "carol")
	follows := NewFollowService(db, newDispatcher())
	svc := NewNotificationService(db, 20, 100)
	ctx := context.Background()

	require.NoError(t, follows.Follow(ctx, ids[1], ids[0]))
	require.NoError(t, follows.Follow(ctx, ids[2], ids[0]))

	unread, err := svc.UnreadCount(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread.Count)

	page, err := svc.List(ctx, ids[0], dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.TotalPage)
	require.NotNil(t, page.Items[0].Sender)

	target := page.Items[0].ID
	_, err = svc.MarkRead(ctx, ids[1], target)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	unread, err = svc.MarkRead(ctx, ids[0], target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Count)

	// 重复标记无副作用
	unread, err = svc.MarkRead(ctx, ids[0], target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Count)

	total, err := svc.TotalCount(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), total.Count)

	_, err = svc.MarkRead(ctx, ids[0], 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNotificationService_EmptyList(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "alice")
	svc := NewNotificationService(db, 20, 100)

	page, err := svc.List(context.Background(), ids[0], dto.PageQuery{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPage)
}

func TestNotificationDispatcher_FanOutPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "f1", "f2", "f3", "stranger")
	follows := NewFollowService(db, newDispatcher())
	ctx := context.Background()
	for _, f := range ids[1:4] {
		require.NoError(t, follows.Follow(ctx, f, ids[0]))
	}

	posts := NewPostService(db, NewNotificationDispatcher("notifications", 2), nil, 20, 100)
	content := strings.Repeat("长", 200)
	info, err := posts.CreatePost(ctx, ids[0], &dto.PostCreateRequest{Content: content})
	require.NoError(t, err)

	for _, f := range ids[1:4] {
		got := testutil.Notifications(t, db, f)
		require.Len(t, got, 1)
		assert.Equal(t, model.NotificationPost, got[0].Type)
		require.NotNil(t, got[0].PostID)
		assert.Equal(t, info.ID, *got[0].PostID)
		assert.Equal(t, excerptRunes+3, len([]rune(got[0].Content)))
	}
	assert.Empty(t, testutil.Notifications(t, db, ids[4]))

	// 三次关注各一条，发帖扇出按每批 2 个接收方拆成两条
	pending, err := repository.NewOutboxRepository(db).CountByStatus(ctx, model.OutboxPending)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pending)
}

func TestNotificationDispatcher_FanOutPostChunksEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "f1", "f2", "f3", "f4", "f5", "f6", "f7")
	for _, f := range ids[1:] {
		require.NoError(t, db.Create(&model.Follow{FollowerID: f, FollowingID: ids[0]}).Error)
	}
	post := testutil.SeedPost(t, db, ids[0], "hello")

	n, err := NewNotificationDispatcher("notifications", 3).FanOutPost(context.Background(), db, post)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	var events []model.OutboxEvent
	require.NoError(t, db.Order("created_at ASC").Find(&events).Error)
	require.Len(t, events, 3)

	seen := make(map[int64]bool)
	for _, ev := range events {
		var payload model.NotificationEvent
		require.NoError(t, json.Unmarshal([]byte(ev.Payload), &payload))
		assert.Equal(t, model.NotificationPost, payload.Type)
		assert.LessOrEqual(t, len(payload.ReceiverIDs), 3)
		for _, id := range payload.ReceiverIDs {
			assert.False(t, seen[id], "receiver %d in two events", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 7)
}

func TestNotificationDispatcher_SkipsSelf(t *testing.T) {
	db := testutil.NewTestDB(t)
	d := newDispatcher()

	err := d.Dispatch(context.Background(), db, &model.Notification{SenderID: 1, ReceiverID: 1, Type: model.NotificationLike})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
