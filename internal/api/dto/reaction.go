package dto

// ReactionResult 反应操作结果，Count 为本次操作类型的最新计数
type ReactionResult struct {
	Kind         string `json:"kind"`
	Count        int64  `json:"count"`
	LikeCount    int64  `json:"likeCount"`
	DislikeCount int64  `json:"dislikeCount"`
}

// ViewResult 浏览记录结果
type ViewResult struct {
	ViewCount int64 `json:"viewCount"`
}
