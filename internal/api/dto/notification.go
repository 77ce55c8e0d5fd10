package dto

import "time"

// NotificationInfo 通知条目
type NotificationInfo struct {
	ID        int64      `json:"id"`
	Sender    *UserBrief `json:"sender"`
	Type      string     `json:"type"`
	PostID    *int64     `json:"postId,omitempty"`
	CommentID *int64     `json:"commentId,omitempty"`
	Content   string     `json:"content"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NotificationCount 通知计数
type NotificationCount struct {
	Count int64 `json:"count"`
}
