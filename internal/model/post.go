package model

import "time"

// Post 帖子，计数字段与 reactions / post_views 账本同事务维护
type Post struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID     int64     `gorm:"not null;index:idx_posts_author_created,priority:1" json:"author_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	LikeCount    int64     `gorm:"not null;default:0" json:"like_count"`
	DislikeCount int64     `gorm:"not null;default:0" json:"dislike_count"`
	ViewCount    int64     `gorm:"not null;default:0" json:"view_count"`
	CommentCount int64     `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_posts_author_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
