package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationPost     NotificationType = "Post"
	NotificationReply    NotificationType = "Reply"
	NotificationComment  NotificationType = "Comment"
	NotificationLike     NotificationType = "Like"
	NotificationDislike  NotificationType = "Dislike"
	NotificationFollow   NotificationType = "Follow"
	NotificationUnfollow NotificationType = "Unfollow"
	NotificationRequest  NotificationType = "Request"
	NotificationAccept   NotificationType = "Accept"
)

// Notification 通知记录，只由接收方标记已读，正常流程不删除
type Notification struct {
	ID         int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64            `gorm:"not null" json:"senderId"`
	ReceiverID int64            `gorm:"not null;index:idx_notifications_receiver_read,priority:1" json:"receiverId"`
	Type       NotificationType `gorm:"size:16;not null" json:"type"`
	PostID     *int64           `json:"postId,omitempty"`
	CommentID  *int64           `json:"commentId,omitempty"`
	Content    string           `gorm:"type:text;not null" json:"content"`
	IsRead     bool             `gorm:"not null;default:false;index:idx_notifications_receiver_read,priority:2" json:"isRead"`
	CreatedAt  time.Time        `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
