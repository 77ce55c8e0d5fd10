package service

import (
	"context"
	"errors"
	"testing"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndexer 内存索引，fail 非空时所有操作返回该错误
type fakeIndexer struct {
	docs map[int64]string
	fail error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{docs: map[int64]string{}}
}

func (f *fakeIndexer) IndexPost(_ context.Context, post *model.Post) error {
	if f.fail != nil {
		return f.fail
	}
	f.docs[post.ID] = post.Content
	return nil
}

func (f *fakeIndexer) SearchPosts(_ context.Context, keyword string, from, size int) ([]int64, int64, error) {
	if f.fail != nil {
		return nil, 0, f.fail
	}
	var ids []int64
	for id, content := range f.docs {
		if keyword == "" || contains(content, keyword) {
			ids = append(ids, id)
		}
	}
	total := int64(len(ids))
	if from >= len(ids) {
		return []int64{}, total, nil
	}
	end := from + size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[from:end], total, nil
}

func (f *fakeIndexer) BulkIndex(ctx context.Context, posts []model.Post) (int, int, error) {
	for i := range posts {
		if err := f.IndexPost(ctx, &posts[i]); err != nil {
			return 0, len(posts), err
		}
	}
	return len(posts), 0, nil
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestPostService_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "reader")
	indexer := newFakeIndexer()
	posts := NewPostService(db, newDispatcher(), indexer, 20, 100)
	reactions := NewReactionService(db, newDispatcher())
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, ids[0], &dto.PostCreateRequest{Content: "golang tips"})
	require.NoError(t, err)
	require.NotNil(t, created.Author)
	assert.Equal(t, "author", created.Author.Username)
	assert.Contains(t, indexer.docs, created.ID)

	_, err = reactions.React(ctx, ids[1], model.TargetPost, created.ID, model.ReactionLike)
	require.NoError(t, err)

	got, err := posts.GetPost(ctx, ids[1], created.ID)
	require.NoError(t, err)
	assert.Equal(t, "like", got.MyReaction)
	assert.Equal(t, int64(1), got.LikeCount)

	anon, err := posts.GetPost(ctx, 0, created.ID)
	require.NoError(t, err)
	assert.Empty(t, anon.MyReaction)

	_, err = posts.GetPost(ctx, 0, 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = posts.CreatePost(ctx, 404, &dto.PostCreateRequest{Content: "ghost"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostService_IndexFailureDoesNotFailCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author")
	indexer := newFakeIndexer()
	indexer.fail = errors.New("es down")
	posts := NewPostService(db, newDispatcher(), indexer, 20, 100)

	created, err := posts.CreatePost(context.Background(), ids[0], &dto.PostCreateRequest{Content: "still saved"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestPostService_ListByAuthor(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author")
	for _, c := range []string{"one", "two", "three"} {
		testutil.SeedPost(t, db, ids[0], c)
	}
	posts := NewPostService(db, newDispatcher(), nil, 2, 100)

	page, err := posts.ListByAuthor(context.Background(), 0, ids[0], dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPage)
	assert.Equal(t, "three", page.Items[0].Content)

	page, err = posts.ListByAuthor(context.Background(), 0, ids[0], dto.PageQuery{Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "one", page.Items[0].Content)
}

func TestCommentService_CommentAndReply(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author", "commenter", "replier")
	post := testutil.SeedPost(t, db, ids[0], "hello")
	other := testutil.SeedPost(t, db, ids[0], "other")
	svc := NewCommentService(db, newDispatcher(), 20, 100)
	ctx := context.Background()

	top, err := svc.CreateComment(ctx, ids[1], post.ID, &dto.CommentCreateRequest{Content: "first"})
	require.NoError(t, err)

	got := testutil.Notifications(t, db, ids[0])
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationComment, got[0].Type)

	parentID := top.ID
	reply, err := svc.CreateComment(ctx, ids[2], post.ID, &dto.CommentCreateRequest{Content: "re", ParentID: &parentID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)

	got = testutil.Notifications(t, db, ids[1])
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationReply, got[0].Type)
	require.NotNil(t, got[0].CommentID)
	assert.Equal(t, reply.ID, *got[0].CommentID)

	_, err = svc.CreateComment(ctx, ids[2], other.ID, &dto.CommentCreateRequest{Content: "x", ParentID: &parentID})
	assert.ErrorIs(t, err, ErrParentMismatch)

	_, err = svc.CreateComment(ctx, ids[2], 404, &dto.CommentCreateRequest{Content: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	page, err := svc.ListByPost(ctx, post.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	var refreshed model.Post
	require.NoError(t, db.First(&refreshed, post.ID).Error)
	assert.Equal(t, int64(2), refreshed.CommentCount)
}

func TestSearchService_FallbackAndReindex(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := testutil.SeedUsers(t, db, "author")
	testutil.SeedPost(t, db, ids[0], "Learning Go")
	testutil.SeedPost(t, db, ids[0], "rust notes")
	ctx := context.Background()

	indexer := newFakeIndexer()
	posts := NewPostService(db, newDispatcher(), indexer, 20, 100)
	search := NewSearchService(db, posts, indexer)

	n, err := search.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := search.SearchPosts(ctx, 0, &dto.PostSearchQuery{Q: "Go"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Learning Go", page.Items[0].Content)

	// 索引不可用时降级为数据库模糊查询，忽略大小写
	indexer.fail = errors.New("es down")
	page, err = search.SearchPosts(ctx, 0, &dto.PostSearchQuery{Q: "go"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Learning Go", page.Items[0].Content)

	noIndex := NewSearchService(db, posts, nil)
	page, err = noIndex.SearchPosts(ctx, 0, &dto.PostSearchQuery{Q: "NOTES"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
