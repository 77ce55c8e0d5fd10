package model

import "time"

// OutboxStatus 发件箱事件状态
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxPublished OutboxStatus = "published"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxEvent 与业务写入同事务落库的待投递事件，由 worker 中继到 Kafka
type OutboxEvent struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Topic       string       `gorm:"size:128;not null" json:"topic"`
	Key         string       `gorm:"size:128;not null" json:"key"`
	Payload     string       `gorm:"type:text;not null" json:"payload"`
	Status      OutboxStatus `gorm:"size:16;not null;default:pending;index:idx_outbox_status_created,priority:1" json:"status"`
	Attempts    int          `gorm:"not null;default:0" json:"attempts"`
	LastError   string       `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;index:idx_outbox_status_created,priority:2" json:"created_at"`
	PublishedAt *time.Time   `json:"published_at,omitempty"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// NotificationEvent 通知推送消息体
type NotificationEvent struct {
	Type        NotificationType `json:"type"`
	SenderID    int64            `json:"sender_id"`
	ReceiverIDs []int64          `json:"receiver_ids"`
	PostID      *int64           `json:"post_id,omitempty"`
	CommentID   *int64           `json:"comment_id,omitempty"`
	Content     string           `json:"content"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// All 全部模型，供迁移使用
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&FriendEdge{},
		&Follow{},
		&Reaction{},
		&PostView{},
		&Notification{},
		&OutboxEvent{},
	}
}
