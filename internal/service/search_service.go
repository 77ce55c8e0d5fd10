package service

import (
	"context"
	"strings"
	"time"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reindexBatchSize = 500

// SearchService 帖子搜索：ES 优先，失败或未配置时降级到数据库
type SearchService struct {
	posts    *PostService
	postRepo *repository.PostRepository
	indexer  PostIndexer
}

func NewSearchService(db *gorm.DB, posts *PostService, indexer PostIndexer) *SearchService {
	return &SearchService{
		posts:    posts,
		postRepo: repository.NewPostRepository(db),
		indexer:  indexer,
	}
}

// SearchPosts 按内容搜索帖子
func (s *SearchService) SearchPosts(ctx context.Context, viewerID int64, query *dto.PostSearchQuery) (*dto.Page[dto.PostInfo], error) {
	q := query.PageQuery.Normalize(s.posts.defaultLimit, s.posts.maxLimit)
	keyword := strings.TrimSpace(query.Q)

	if s.indexer != nil {
		page, err := s.searchFromES(ctx, viewerID, keyword, q)
		if err == nil {
			return page, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}

	posts, total, err := s.postRepo.SearchByContent(ctx, keyword, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items, err := s.posts.hydrate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, q.Page, q.Limit, total), nil
}

func (s *SearchService) searchFromES(ctx context.Context, viewerID int64, keyword string, q dto.PageQuery) (*dto.Page[dto.PostInfo], error) {
	esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ids, total, err := s.indexer.SearchPosts(esCtx, keyword, q.Offset(), q.Limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items, err := s.posts.hydrate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, q.Page, q.Limit, total), nil
}

// Reindex 按 id 顺序把全部帖子重新写入索引
func (s *SearchService) Reindex(ctx context.Context) (indexed int, err error) {
	if s.indexer == nil {
		return 0, nil
	}
	var afterID int64
	for {
		posts, err := s.postRepo.ListSince(ctx, afterID, reindexBatchSize)
		if err != nil {
			return indexed, err
		}
		if len(posts) == 0 {
			break
		}
		success, failed, err := s.indexer.BulkIndex(ctx, posts)
		if err != nil {
			return indexed, err
		}
		if failed > 0 {
			logger.Warn("Reindex batch partially failed", zap.Int("failed", failed), zap.Int64("after_id", afterID))
		}
		indexed += success
		afterID = posts[len(posts)-1].ID
	}
	logger.Info("Posts reindexed", zap.Int("indexed", indexed))
	return indexed, nil
}
