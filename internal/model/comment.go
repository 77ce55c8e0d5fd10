package model

import "time"

// Comment 评论，ParentID 非空时为回复
type Comment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID       int64     `gorm:"not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	UserID       int64     `gorm:"not null;index:idx_comments_user_id" json:"user_id"`
	ParentID     *int64    `gorm:"index:idx_comments_parent_id" json:"parent_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	LikeCount    int64     `gorm:"not null;default:0" json:"like_count"`
	DislikeCount int64     `gorm:"not null;default:0" json:"dislike_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_comments_post_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
