package model

import "time"

// Follow 单向关注关系，(follower_id, following_id) 唯一
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:uq_follow_pair,priority:1;index:idx_follows_follower" json:"follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:uq_follow_pair,priority:2;index:idx_follows_following" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
