package dto

import "linkup-go/internal/model"

// FriendStatusResult 好友操作结果：边信息加布尔状态组
type FriendStatusResult struct {
	EdgeID     int64 `json:"edgeId"`
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
	model.FriendStatus
}

// FollowStatus 关注状态
type FollowStatus struct {
	Following  bool  `json:"following"`
	FollowedBy bool  `json:"followedBy"`
	Followers  int64 `json:"followers"`
	Followings int64 `json:"followings"`
}
