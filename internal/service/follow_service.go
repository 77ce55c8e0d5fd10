package service

import (
	"context"
	"errors"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCannotFollowSelf = apperr.InvalidState("不能关注自己")
	ErrFollowBlocked    = apperr.Forbidden("双方存在屏蔽关系，无法关注")
)

// FollowService 单向关注；重复关注和取消不存在的关注都视为成功
type FollowService struct {
	db         *gorm.DB
	followRepo *repository.FollowRepository
	dispatcher *NotificationDispatcher
}

func NewFollowService(db *gorm.DB, dispatcher *NotificationDispatcher) *FollowService {
	return &FollowService{
		db:         db,
		followRepo: repository.NewFollowRepository(db),
		dispatcher: dispatcher,
	}
}

// Follow 关注用户，仅在实际新建关系时通知对方
func (s *FollowService) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrCannotFollowSelf
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, targetID); err != nil {
			return err
		}
		edge, err := repository.NewFriendRepository(tx).FindPair(ctx, followerID, targetID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if edge != nil && edge.Blocked() {
			return ErrFollowBlocked
		}

		inserted, err := s.followRepo.WithTx(tx).Create(ctx, followerID, targetID)
		if err != nil || !inserted {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, &model.Notification{
			SenderID:   followerID,
			ReceiverID: targetID,
			Type:       model.NotificationFollow,
		})
	})
	if err != nil {
		return s.fail("follow", err, targetID)
	}
	return nil
}

// Unfollow 取消关注，仅在实际删除时通知对方
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return ErrCannotFollowSelf
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.followRepo.WithTx(tx).Delete(ctx, followerID, targetID)
		if err != nil || !deleted {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, &model.Notification{
			SenderID:   followerID,
			ReceiverID: targetID,
			Type:       model.NotificationUnfollow,
		})
	})
	if err != nil {
		return s.fail("unfollow", err, targetID)
	}
	return nil
}

// IsFollowing a 是否关注了 b
func (s *FollowService) IsFollowing(ctx context.Context, a, b int64) (bool, error) {
	ok, err := s.followRepo.Exists(ctx, a, b)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

// GetStatus 双向关注状态与目标用户的关注计数
func (s *FollowService) GetStatus(ctx context.Context, viewerID, targetID int64) (*dto.FollowStatus, error) {
	var (
		st  dto.FollowStatus
		err error
	)
	if st.Following, err = s.followRepo.Exists(ctx, viewerID, targetID); err != nil {
		return nil, apperr.Internal(err)
	}
	if st.FollowedBy, err = s.followRepo.Exists(ctx, targetID, viewerID); err != nil {
		return nil, apperr.Internal(err)
	}
	if st.Followers, err = s.followRepo.CountFollowers(ctx, targetID); err != nil {
		return nil, apperr.Internal(err)
	}
	if st.Followings, err = s.followRepo.CountFollowing(ctx, targetID); err != nil {
		return nil, apperr.Internal(err)
	}
	return &st, nil
}

func (s *FollowService) fail(action string, err error, targetID int64) error {
	appErr := apperr.FromDB(err, resourceUser, targetID)
	if apperr.Is(appErr, apperr.KindInternal) {
		logger.Error("Follow mutation failed", zap.String("action", action), zap.Int64("target_id", targetID), zap.Error(err))
	}
	return appErr
}
