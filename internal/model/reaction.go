package model

import "time"

// TargetType 被反应对象类型
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// ReactionKind 反应类型，同一用户对同一对象至多持有一种
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// CounterColumn 对象表上对应的计数列
func (k ReactionKind) CounterColumn() string {
	if k == ReactionLike {
		return "like_count"
	}
	return "dislike_count"
}

// Reaction 反应账本行，(user_id, target_type, target_id) 唯一
type Reaction struct {
	ID         int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64        `gorm:"not null;uniqueIndex:uq_reaction_user_target,priority:1" json:"user_id"`
	TargetType TargetType   `gorm:"size:16;not null;uniqueIndex:uq_reaction_user_target,priority:2;index:idx_reactions_target,priority:1" json:"target_type"`
	TargetID   int64        `gorm:"not null;uniqueIndex:uq_reaction_user_target,priority:3;index:idx_reactions_target,priority:2" json:"target_id"`
	Kind       ReactionKind `gorm:"size:16;not null" json:"kind"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// ReactionCounts 对象的最新计数
type ReactionCounts struct {
	LikeCount    int64 `json:"likeCount"`
	DislikeCount int64 `json:"dislikeCount"`
}

// Of 返回指定类型的计数
func (c ReactionCounts) Of(kind ReactionKind) int64 {
	if kind == ReactionLike {
		return c.LikeCount
	}
	return c.DislikeCount
}
