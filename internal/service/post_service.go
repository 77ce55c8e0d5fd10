package service

import (
	"context"
	"errors"
	"time"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resourcePost = "帖子"

// PostIndexer 帖子全文索引，未配置时为 nil
type PostIndexer interface {
	IndexPost(ctx context.Context, post *model.Post) error
	SearchPosts(ctx context.Context, keyword string, from, size int) ([]int64, int64, error)
	BulkIndex(ctx context.Context, posts []model.Post) (success, failed int, err error)
}

type PostService struct {
	db           *gorm.DB
	postRepo     *repository.PostRepository
	userRepo     *repository.UserRepository
	reactionRepo *repository.ReactionRepository
	dispatcher   *NotificationDispatcher
	indexer      PostIndexer
	defaultLimit int
	maxLimit     int
}

func NewPostService(db *gorm.DB, dispatcher *NotificationDispatcher, indexer PostIndexer, defaultLimit, maxLimit int) *PostService {
	return &PostService{
		db:           db,
		postRepo:     repository.NewPostRepository(db),
		userRepo:     repository.NewUserRepository(db),
		reactionRepo: repository.NewReactionRepository(db),
		dispatcher:   dispatcher,
		indexer:      indexer,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CreatePost 发帖并在同一事务内给作者当前的粉丝写入通知
func (s *PostService) CreatePost(ctx context.Context, authorID int64, req *dto.PostCreateRequest) (*dto.PostInfo, error) {
	post := &model.Post{AuthorID: authorID, Content: req.Content}
	var fanout int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, authorID); err != nil {
			return err
		}
		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		var err error
		fanout, err = s.dispatcher.FanOutPost(ctx, tx, post)
		return err
	})
	if err != nil {
		appErr := apperr.FromDB(err, resourceUser, authorID)
		if apperr.Is(appErr, apperr.KindInternal) {
			logger.Error("Create post failed", zap.Int64("author_id", authorID), zap.Error(err))
		}
		return nil, appErr
	}

	logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", authorID),
		zap.Int("fanout", fanout),
	)
	s.index(ctx, post)

	author, _ := s.userRepo.GetByID(ctx, authorID)
	return toPostInfo(post, author, ""), nil
}

// index 同步写入全文索引，失败只记日志，由 worker 全量重建兜底
func (s *PostService) index(ctx context.Context, post *model.Post) {
	if s.indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.indexer.IndexPost(ctx, post); err != nil {
		logger.Warn("Index post failed", zap.Int64("post_id", post.ID), zap.Error(err))
	}
}

// GetPost 帖子详情；viewerID 为 0 表示匿名
func (s *PostService) GetPost(ctx context.Context, viewerID, postID int64) (*dto.PostInfo, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, apperr.FromDB(err, resourcePost, postID)
	}
	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	myReaction := ""
	if viewerID > 0 {
		kinds, err := s.reactionRepo.KindsByUser(ctx, viewerID, model.TargetPost, []int64{postID})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		myReaction = string(kinds[postID])
	}
	return toPostInfo(post, author, myReaction), nil
}

// ListByAuthor 作者的帖子（分页）
func (s *PostService) ListByAuthor(ctx context.Context, viewerID, authorID int64, q dto.PageQuery) (*dto.Page[dto.PostInfo], error) {
	q = q.Normalize(s.defaultLimit, s.maxLimit)
	posts, total, err := s.postRepo.ListByAuthor(ctx, authorID, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items, err := s.hydrate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, q.Page, q.Limit, total), nil
}

// hydrate 批量补齐作者与当前用户的反应
func (s *PostService) hydrate(ctx context.Context, viewerID int64, posts []model.Post) ([]dto.PostInfo, error) {
	authorIDs := make([]int64, 0, len(posts))
	postIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
		postIDs = append(postIDs, p.ID)
	}
	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	kinds := map[int64]model.ReactionKind{}
	if viewerID > 0 {
		if kinds, err = s.reactionRepo.KindsByUser(ctx, viewerID, model.TargetPost, postIDs); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	items := make([]dto.PostInfo, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		items = append(items, *toPostInfo(p, authors[p.AuthorID], string(kinds[p.ID])))
	}
	return items, nil
}

func toPostInfo(p *model.Post, author *model.User, myReaction string) *dto.PostInfo {
	return &dto.PostInfo{
		ID:           p.ID,
		Author:       toUserBrief(author),
		Content:      p.Content,
		LikeCount:    p.LikeCount,
		DislikeCount: p.DislikeCount,
		ViewCount:    p.ViewCount,
		CommentCount: p.CommentCount,
		MyReaction:   myReaction,
		CreatedAt:    p.CreatedAt,
	}
}
