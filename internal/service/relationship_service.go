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

const (
	resourceUser       = "用户"
	resourceFriendEdge = "好友关系"
)

// RelationshipService 好友请求、接受/拒绝、解除与屏蔽
type RelationshipService struct {
	db         *gorm.DB
	friendRepo *repository.FriendRepository
	dispatcher *NotificationDispatcher
}

func NewRelationshipService(db *gorm.DB, dispatcher *NotificationDispatcher) *RelationshipService {
	return &RelationshipService{
		db:         db,
		friendRepo: repository.NewFriendRepository(db),
		dispatcher: dispatcher,
	}
}

// CreateRequest sender 向 receiver 发起好友请求
func (s *RelationshipService) CreateRequest(ctx context.Context, senderID, receiverID int64) (*dto.FriendStatusResult, error) {
	if senderID == receiverID {
		return nil, model.ErrFriendSelf
	}

	var edge *model.FriendEdge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, receiverID); err != nil {
			return err
		}
		friends := s.friendRepo.WithTx(tx)
		var err error
		if edge, err = friends.EnsureEdge(ctx, senderID, receiverID); err != nil {
			return err
		}
		if err := edge.Request(senderID); err != nil {
			return err
		}
		if err := friends.Save(ctx, edge); err != nil {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, &model.Notification{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Type:       model.NotificationRequest,
		})
	})
	if err != nil {
		return nil, s.fail("request", err, receiverID)
	}

	metrics.FriendTransitions.WithLabelValues("request").Inc()
	logger.Info("Friend request created",
		zap.Int64("edge_id", edge.ID),
		zap.Int64("sender_id", senderID),
		zap.Int64("receiver_id", receiverID),
	)
	return toFriendStatusResult(edge), nil
}

// Accept 请求接收方接受，向请求方发送 Accept 通知
func (s *RelationshipService) Accept(ctx context.Context, actorID, edgeID int64) (*dto.FriendStatusResult, error) {
	return s.transition(ctx, "accept", actorID, edgeID, func(tx *gorm.DB, edge *model.FriendEdge) error {
		requester, _ := edge.Requester()
		if err := edge.Accept(actorID); err != nil {
			return err
		}
		return s.dispatcher.Dispatch(ctx, tx, &model.Notification{
			SenderID:   actorID,
			ReceiverID: requester,
			Type:       model.NotificationAccept,
		})
	})
}

// Reject 请求接收方拒绝，不产生通知
func (s *RelationshipService) Reject(ctx context.Context, actorID, edgeID int64) (*dto.FriendStatusResult, error) {
	return s.transition(ctx, "reject", actorID, edgeID, func(_ *gorm.DB, edge *model.FriendEdge) error {
		return edge.Reject(actorID)
	})
}

// RemoveRequest 请求方撤回待处理请求
func (s *RelationshipService) RemoveRequest(ctx context.Context, actorID, edgeID int64) (*dto.FriendStatusResult, error) {
	return s.transition(ctx, "withdraw", actorID, edgeID, func(_ *gorm.DB, edge *model.FriendEdge) error {
		return edge.Withdraw(actorID)
	})
}

// RemoveFriend 任一方解除好友关系
func (s *RelationshipService) RemoveFriend(ctx context.Context, actorID, edgeID int64) (*dto.FriendStatusResult, error) {
	return s.transition(ctx, "unfriend", actorID, edgeID, func(_ *gorm.DB, edge *model.FriendEdge) error {
		return edge.Unfriend()
	})
}

// transition 锁定边并执行状态迁移；非当事人按不存在处理
func (s *RelationshipService) transition(
	ctx context.Context,
	action string,
	actorID, edgeID int64,
	apply func(tx *gorm.DB, edge *model.FriendEdge) error,
) (*dto.FriendStatusResult, error) {
	var edge *model.FriendEdge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friends := s.friendRepo.WithTx(tx)
		var err error
		if edge, err = friends.LockByID(ctx, edgeID); err != nil {
			return err
		}
		if !edge.IsParty(actorID) {
			return apperr.NotFound(resourceFriendEdge, edgeID)
		}
		if err := apply(tx, edge); err != nil {
			return err
		}
		return friends.Save(ctx, edge)
	})
	if err != nil {
		return nil, s.fail(action, err, edgeID)
	}

	metrics.FriendTransitions.WithLabelValues(action).Inc()
	logger.Info("Friend edge transitioned",
		zap.String("action", action),
		zap.Int64("edge_id", edge.ID),
		zap.Int64("actor_id", actorID),
		zap.String("state", string(edge.State)),
	)
	return toFriendStatusResult(edge), nil
}

// Block 设置 actor 一侧的屏蔽位，边不存在时创建；幂等
func (s *RelationshipService) Block(ctx context.Context, actorID, targetID int64) (*dto.FriendStatusResult, error) {
	if actorID == targetID {
		return nil, model.ErrFriendSelf
	}

	var (
		edge    *model.FriendEdge
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, targetID); err != nil {
			return err
		}
		friends := s.friendRepo.WithTx(tx)
		var err error
		if edge, err = friends.EnsureEdge(ctx, actorID, targetID); err != nil {
			return err
		}
		if changed = edge.SetBlocked(actorID, true); !changed {
			return nil
		}
		return friends.Save(ctx, edge)
	})
	if err != nil {
		return nil, s.fail("block", err, targetID)
	}

	if changed {
		metrics.FriendTransitions.WithLabelValues("block").Inc()
	}
	return toFriendStatusResult(edge), nil
}

// Unblock 清除 actor 一侧的屏蔽位；没有边时直接返回空状态
func (s *RelationshipService) Unblock(ctx context.Context, actorID, targetID int64) (*dto.FriendStatusResult, error) {
	if actorID == targetID {
		return nil, model.ErrFriendSelf
	}

	var (
		edge    *model.FriendEdge
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friends := s.friendRepo.WithTx(tx)
		var err error
		edge, err = friends.LockPair(ctx, actorID, targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			edge = nil
			return nil
		}
		if err != nil {
			return err
		}
		if changed = edge.SetBlocked(actorID, false); !changed {
			return nil
		}
		return friends.Save(ctx, edge)
	})
	if err != nil {
		return nil, s.fail("unblock", err, targetID)
	}

	if changed {
		metrics.FriendTransitions.WithLabelValues("unblock").Inc()
	}
	if edge == nil {
		return &dto.FriendStatusResult{}, nil
	}
	return toFriendStatusResult(edge), nil
}

// GetStatus 两个用户之间的状态；没有边时全部为 false
func (s *RelationshipService) GetStatus(ctx context.Context, userA, userB int64) (*dto.FriendStatusResult, error) {
	edge, err := s.friendRepo.FindPair(ctx, userA, userB)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.FriendStatusResult{}, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return toFriendStatusResult(edge), nil
}

func (s *RelationshipService) fail(action string, err error, id int64) error {
	appErr := apperr.FromDB(err, resourceFriendEdge, id)
	if apperr.Is(appErr, apperr.KindInternal) {
		logger.Error("Friend edge transition failed", zap.String("action", action), zap.Error(err))
	}
	return appErr
}

// ensureUser 目标用户不存在时返回 NotFound
func ensureUser(ctx context.Context, tx *gorm.DB, userID int64) error {
	exists, err := repository.NewUserRepository(tx).Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(resourceUser, userID)
	}
	return nil
}

func toFriendStatusResult(edge *model.FriendEdge) *dto.FriendStatusResult {
	return &dto.FriendStatusResult{
		EdgeID:       edge.ID,
		SenderID:     edge.SenderID,
		ReceiverID:   edge.ReceiverID,
		FriendStatus: edge.Status(),
	}
}
