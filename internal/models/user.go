package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// Privacy 为 true 时表示私密用户：不能被直接拉进群组，只能通过邀请或自己申请加入
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Handle       string `gorm:"column:handle;uniqueIndex;size:18;not null" json:"handle"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `json:"full_name"`
	ProfilePic   string `json:"profile_pic"`
	Privacy      bool   `gorm:"default:false" json:"privacy"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserGroup 用户侧的群组引用（user.groups 集合），与 GroupMember 互为对偶
type UserGroup struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	GroupID   uint      `gorm:"primaryKey" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserGroup) TableName() string {
	return "user_groups"
}
