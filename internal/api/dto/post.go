package dto

import "time"

// PostCreateRequest 发帖请求
type PostCreateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// PostInfo 帖子信息
type PostInfo struct {
	ID           int64      `json:"id"`
	Author       *UserBrief `json:"author"`
	Content      string     `json:"content"`
	LikeCount    int64      `json:"likeCount"`
	DislikeCount int64      `json:"dislikeCount"`
	ViewCount    int64      `json:"viewCount"`
	CommentCount int64      `json:"commentCount"`
	MyReaction   string     `json:"myReaction,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PostSearchQuery 搜索参数
type PostSearchQuery struct {
	PageQuery
	Q string `form:"q" binding:"required,min=1,max=100"`
}

// CommentCreateRequest 评论请求，ParentID 非空表示回复
type CommentCreateRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id" binding:"omitempty,min=1"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID           int64      `json:"id"`
	PostID       int64      `json:"postId"`
	ParentID     *int64     `json:"parentId"`
	User         *UserBrief `json:"user"`
	Content      string     `json:"content"`
	LikeCount    int64      `json:"likeCount"`
	DislikeCount int64      `json:"dislikeCount"`
	CreatedAt    time.Time  `json:"createdAt"`
}
