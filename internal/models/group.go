package models

import (
	"time"
)

// 群组可见性
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Group 群组模型
// Admin 在创建后不可变更；私有群组的成员变动只能通过邀请协议或管理员操作
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
	AdminID     uint   `gorm:"not null;index" json:"admin_id"`
	Visibility  string `gorm:"default:public" json:"visibility"` // public, private

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupMember 群组侧的成员引用（group.members 集合），与 UserGroup 互为对偶
// 联合主键保证同一用户在同一群组中至多出现一次
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey" json:"group_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
