package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"linkup-go/internal/metrics"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultFanoutBatchSize = 500

// NotificationDispatcher 在调用方事务内写入通知行和对应的发件箱事件
//
// 通知与触发它的状态变更同事务提交；实时推送由 worker 从发件箱异步中继。
type NotificationDispatcher struct {
	topic     string
	batchSize int
}

func NewNotificationDispatcher(topic string, batchSize int) *NotificationDispatcher {
	if batchSize <= 0 {
		batchSize = defaultFanoutBatchSize
	}
	return &NotificationDispatcher{topic: topic, batchSize: batchSize}
}

// Dispatch 写入单条通知；发送方与接收方相同时跳过
func (d *NotificationDispatcher) Dispatch(ctx context.Context, tx *gorm.DB, n *model.Notification) error {
	if n.SenderID == n.ReceiverID {
		return nil
	}
	if err := repository.NewNotificationRepository(tx).Create(ctx, n); err != nil {
		return err
	}
	if err := d.enqueue(ctx, tx, n, []int64{n.ReceiverID}); err != nil {
		return err
	}
	metrics.NotificationsDispatched.WithLabelValues(string(n.Type)).Inc()
	return nil
}

// FanOutPost 给作者此刻的全部粉丝写入 Post 通知，返回写入条数
func (d *NotificationDispatcher) FanOutPost(ctx context.Context, tx *gorm.DB, post *model.Post) (int, error) {
	followerIDs, err := repository.NewFollowRepository(tx).FollowerIDs(ctx, post.AuthorID)
	if err != nil {
		return 0, err
	}

	receivers := make([]int64, 0, len(followerIDs))
	list := make([]model.Notification, 0, len(followerIDs))
	postID := post.ID
	for _, fid := range followerIDs {
		if fid == post.AuthorID {
			continue
		}
		receivers = append(receivers, fid)
		list = append(list, model.Notification{
			SenderID:   post.AuthorID,
			ReceiverID: fid,
			Type:       model.NotificationPost,
			PostID:     &postID,
			Content:    excerpt(post.Content),
		})
	}
	if len(list) == 0 {
		return 0, nil
	}

	if err := repository.NewNotificationRepository(tx).CreateInBatches(ctx, list, d.batchSize); err != nil {
		return 0, err
	}
	// 每批接收方一条事件，控制单条 Kafka 消息大小
	for start := 0; start < len(receivers); start += d.batchSize {
		end := min(start+d.batchSize, len(receivers))
		if err := d.enqueue(ctx, tx, &list[0], receivers[start:end]); err != nil {
			return 0, err
		}
	}
	metrics.NotificationsDispatched.WithLabelValues(string(model.NotificationPost)).Add(float64(len(list)))
	return len(list), nil
}

func (d *NotificationDispatcher) enqueue(ctx context.Context, tx *gorm.DB, n *model.Notification, receivers []int64) error {
	payload, err := json.Marshal(model.NotificationEvent{
		Type:        n.Type,
		SenderID:    n.SenderID,
		ReceiverIDs: receivers,
		PostID:      n.PostID,
		CommentID:   n.CommentID,
		Content:     n.Content,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return repository.NewOutboxRepository(tx).Create(ctx, &model.OutboxEvent{
		ID:      uuid.NewString(),
		Topic:   d.topic,
		Key:     strconv.FormatInt(n.SenderID, 10),
		Payload: string(payload),
		Status:  model.OutboxPending,
	})
}

const excerptRunes = 140

// excerpt 通知中展示的内容摘要
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	return string(runes[:excerptRunes]) + "..."
}
