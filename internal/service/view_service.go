package service

import (
	"context"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ViewService 浏览账本，每个身份对每个帖子只计一次
type ViewService struct {
	db       *gorm.DB
	viewRepo *repository.ViewRepository
	postRepo *repository.PostRepository
}

func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{
		db:       db,
		viewRepo: repository.NewViewRepository(db),
		postRepo: repository.NewPostRepository(db),
	}
}

// RecordView 记录浏览并返回最新浏览数；viewerKey 由 utils.UserViewerKey / AnonymousViewerKey 生成
func (s *ViewService) RecordView(ctx context.Context, viewerKey string, postID int64) (*dto.ViewResult, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		if _, err := posts.GetByID(ctx, postID); err != nil {
			return err
		}
		inserted, err := s.viewRepo.WithTx(tx).Record(ctx, postID, viewerKey)
		if err != nil {
			return err
		}
		if inserted {
			count, err = posts.IncrementViewCount(ctx, postID)
		} else {
			count, err = posts.ViewCount(ctx, postID)
		}
		return err
	})
	if err != nil {
		appErr := apperr.FromDB(err, resourcePost, postID)
		if apperr.Is(appErr, apperr.KindInternal) {
			logger.Error("Record view failed", zap.Int64("post_id", postID), zap.Error(err))
		}
		return nil, appErr
	}
	return &dto.ViewResult{ViewCount: count}, nil
}
