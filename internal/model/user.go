package model

import "time"

// User 用户身份记录，由身份服务维护，本服务只读引用
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserName   string    `gorm:"size:255;not null;uniqueIndex" json:"user_name"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Mobile     *string   `gorm:"size:32" json:"mobile,omitempty"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
