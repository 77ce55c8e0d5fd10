package model

import "time"

// PostView 浏览记录，每个身份（用户或匿名令牌）对每个帖子只记一次
type PostView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"not null;uniqueIndex:uq_post_viewer,priority:1" json:"post_id"`
	ViewerKey string    `gorm:"size:80;not null;uniqueIndex:uq_post_viewer,priority:2" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PostView) TableName() string {
	return "post_views"
}
