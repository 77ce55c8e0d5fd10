package service

import (
	"context"
	"testing"

	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/testutil"
	"linkup-go/pkg/utils"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewService_OncePerViewer(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "reader")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewViewService(db)
	ctx := context.Background()

	userKey := utils.UserViewerKey(ids[1])
	anonKey := utils.AnonymousViewerKey("device-token")

	res, err := svc.RecordView(ctx, userKey, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ViewCount)

	res, err = svc.RecordView(ctx, userKey, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ViewCount)

	res, err = svc.RecordView(ctx, anonKey, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ViewCount)

	assert.Equal(t, res.ViewCount, testutil.CountViews(t, db, post.ID))
}

func TestViewService_UnknownPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewViewService(db)

	_, err := svc.RecordView(context.Background(), utils.UserViewerKey(1), 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestViewService_ConcurrentDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "reader")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	svc := NewViewService(db)
	key := utils.UserViewerKey(ids[1])

	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			_, err := svc.RecordView(context.Background(), key, post.ID)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	var refreshed model.Post
	require.NoError(t, db.First(&refreshed, post.ID).Error)
	assert.Equal(t, int64(1), refreshed.ViewCount)
}
