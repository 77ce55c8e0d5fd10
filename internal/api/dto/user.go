package dto

import "time"

// UserBrief 列表中的用户简要信息
type UserBrief struct {
	ID         int64  `json:"id"`
	Username   string `json:"user_name"`
	IsVerified bool   `json:"is_verified"`
}

// GraphUser 关系查询结果中的用户
type GraphUser struct {
	UserBrief
	SharedCount int       `json:"shared_count"`
	Since       time.Time `json:"since"`
}
