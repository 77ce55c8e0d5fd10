package service

import (
	"context"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resourceNotification = "通知"

// NotificationService 通知列表、已读与计数；计数每次实时统计
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	defaultLimit     int
	maxLimit         int
}

func NewNotificationService(db *gorm.DB, defaultLimit, maxLimit int) *NotificationService {
	return &NotificationService{
		notificationRepo: repository.NewNotificationRepository(db),
		userRepo:         repository.NewUserRepository(db),
		defaultLimit:     defaultLimit,
		maxLimit:         maxLimit,
	}
}

// List 接收方的通知（分页）
func (s *NotificationService) List(ctx context.Context, receiverID int64, q dto.PageQuery) (*dto.Page[dto.NotificationInfo], error) {
	q = q.Normalize(s.defaultLimit, s.maxLimit)
	list, total, err := s.notificationRepo.ListByReceiver(ctx, receiverID, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	senderIDs := make([]int64, 0, len(list))
	for _, n := range list {
		senderIDs = append(senderIDs, n.SenderID)
	}
	senders, err := s.userRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	items := make([]dto.NotificationInfo, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationInfo(&n, senders[n.SenderID]))
	}
	return dto.NewPage(items, q.Page, q.Limit, total), nil
}

// MarkRead 接收方标记已读，返回最新未读数；重复标记无副作用
func (s *NotificationService) MarkRead(ctx context.Context, receiverID, notificationID int64) (*dto.NotificationCount, error) {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, s.fail(err, notificationID)
	}
	if n.ReceiverID != receiverID {
		return nil, apperr.NotFound(resourceNotification, notificationID)
	}
	if !n.IsRead {
		if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
			return nil, s.fail(err, notificationID)
		}
	}
	return s.UnreadCount(ctx, receiverID)
}

// UnreadCount 未读数
func (s *NotificationService) UnreadCount(ctx context.Context, receiverID int64) (*dto.NotificationCount, error) {
	count, err := s.notificationRepo.CountUnread(ctx, receiverID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.NotificationCount{Count: count}, nil
}

// TotalCount 通知总数
func (s *NotificationService) TotalCount(ctx context.Context, receiverID int64) (*dto.NotificationCount, error) {
	count, err := s.notificationRepo.CountTotal(ctx, receiverID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.NotificationCount{Count: count}, nil
}

func (s *NotificationService) fail(err error, id int64) error {
	appErr := apperr.FromDB(err, resourceNotification, id)
	if apperr.Is(appErr, apperr.KindInternal) {
		logger.Error("Notification operation failed", zap.Int64("notification_id", id), zap.Error(err))
	}
	return appErr
}

func toNotificationInfo(n *model.Notification, sender *model.User) dto.NotificationInfo {
	return dto.NotificationInfo{
		ID:        n.ID,
		Sender:    toUserBrief(sender),
		Type:      string(n.Type),
		PostID:    n.PostID,
		CommentID: n.CommentID,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.ID, Username: u.UserName, IsVerified: u.IsVerified}
}
