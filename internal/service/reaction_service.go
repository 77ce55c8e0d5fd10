package service

import (
	"context"
	"errors"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/metrics"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidReaction = apperr.InvalidState("不支持的反应类型")
	ErrReactionStale   = apperr.Conflict("当前反应与请求不一致")
)

// ReactionService 点赞/点踩账本，计数与账本行同事务维护
type ReactionService struct {
	db           *gorm.DB
	reactionRepo *repository.ReactionRepository
	dispatcher   *NotificationDispatcher
}

func NewReactionService(db *gorm.DB, dispatcher *NotificationDispatcher) *ReactionService {
	return &ReactionService{
		db:           db,
		reactionRepo: repository.NewReactionRepository(db),
		dispatcher:   dispatcher,
	}
}

// React 设置用户在对象上的反应
//
// 没有反应时插入并计数 +1；相同类型幂等；相反类型原地切换并同时调整两个计数。
func (s *ReactionService) React(ctx context.Context, userID int64, targetType model.TargetType, targetID int64, kind model.ReactionKind) (*dto.ReactionResult, error) {
	if !targetType.Valid() || !kind.Valid() {
		return nil, ErrInvalidReaction
	}

	var (
		counts model.ReactionCounts
		result = "noop"
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reactions := s.reactionRepo.WithTx(tx)
		target, err := reactions.LockTarget(ctx, targetType, targetID)
		if err != nil {
			return err
		}

		current, err := reactions.LockByUserTarget(ctx, userID, targetType, targetID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := reactions.Create(ctx, &model.Reaction{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
				Kind:       kind,
			}); err != nil {
				return err
			}
			if err := reactions.AdjustCounter(ctx, targetType, targetID, kind, 1); err != nil {
				return err
			}
			result = "created"
		case err != nil:
			return err
		case current.Kind == kind:
			// 幂等
		default:
			if err := reactions.UpdateKind(ctx, current.ID, kind); err != nil {
				return err
			}
			if err := reactions.AdjustCounter(ctx, targetType, targetID, current.Kind, -1); err != nil {
				return err
			}
			if err := reactions.AdjustCounter(ctx, targetType, targetID, kind, 1); err != nil {
				return err
			}
			result = "switched"
		}

		if result != "noop" {
			if err := s.dispatcher.Dispatch(ctx, tx, reactionNotification(userID, target, kind)); err != nil {
				return err
			}
		}

		counts, err = reactions.Counts(ctx, targetType, targetID)
		return err
	})
	if err != nil {
		return nil, s.fail(err, targetType, targetID)
	}

	metrics.Reactions.WithLabelValues(string(targetType), string(kind), result).Inc()
	return toReactionResult(kind, counts), nil
}

// RemoveReaction 撤销反应；调用方声明的类型与当前不符时返回 Conflict
func (s *ReactionService) RemoveReaction(ctx context.Context, userID int64, targetType model.TargetType, targetID int64, kind model.ReactionKind) (*dto.ReactionResult, error) {
	if !targetType.Valid() || !kind.Valid() {
		return nil, ErrInvalidReaction
	}

	var counts model.ReactionCounts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reactions := s.reactionRepo.WithTx(tx)
		if _, err := reactions.LockTarget(ctx, targetType, targetID); err != nil {
			return err
		}

		current, err := reactions.LockByUserTarget(ctx, userID, targetType, targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("反应", targetID)
		}
		if err != nil {
			return err
		}
		if current.Kind != kind {
			return ErrReactionStale
		}

		if err := reactions.Delete(ctx, current.ID); err != nil {
			return err
		}
		if err := reactions.AdjustCounter(ctx, targetType, targetID, kind, -1); err != nil {
			return err
		}

		counts, err = reactions.Counts(ctx, targetType, targetID)
		return err
	})
	if err != nil {
		return nil, s.fail(err, targetType, targetID)
	}

	metrics.Reactions.WithLabelValues(string(targetType), string(kind), "removed").Inc()
	return toReactionResult(kind, counts), nil
}

func (s *ReactionService) fail(err error, targetType model.TargetType, targetID int64) error {
	resource := "帖子"
	if targetType == model.TargetComment {
		resource = "评论"
	}
	appErr := apperr.FromDB(err, resource, targetID)
	if apperr.Is(appErr, apperr.KindInternal) {
		logger.Error("Reaction mutation failed",
			zap.String("target_type", string(targetType)),
			zap.Int64("target_id", targetID),
			zap.Error(err),
		)
	}
	return appErr
}

func reactionNotification(userID int64, target *repository.ReactionTarget, kind model.ReactionKind) *model.Notification {
	n := &model.Notification{
		SenderID:   userID,
		ReceiverID: target.OwnerID,
		Type:       model.NotificationLike,
	}
	if kind == model.ReactionDislike {
		n.Type = model.NotificationDislike
	}
	postID := target.PostID
	n.PostID = &postID
	if target.Type == model.TargetComment {
		commentID := target.ID
		n.CommentID = &commentID
	}
	return n
}

func toReactionResult(kind model.ReactionKind, counts model.ReactionCounts) *dto.ReactionResult {
	return &dto.ReactionResult{
		Kind:         string(kind),
		Count:        counts.Of(kind),
		LikeCount:    counts.LikeCount,
		DislikeCount: counts.DislikeCount,
	}
}
