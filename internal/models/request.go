package models

import (
	"fmt"
	"time"
)

// 请求与邀请的状态
// rejected 不落库：被拒绝的记录直接删除
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// 群组邀请的两种形态
const (
	KindInvite      = "invite"       // 管理员邀请用户加入私有群组
	KindJoinRequest = "join_request" // 用户申请加入私有群组
)

// ConnectionRequest 用户连接请求
// status=accepted 的记录即为社交图上的一条边，没有单独的 "connection" 实体
// PairKey 对无序对 {sender, receiver} 唯一，保证同一对用户间至多存在一条记录
type ConnectionRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	PairKey    string `gorm:"uniqueIndex;not null" json:"-"`
	Status     string `gorm:"default:pending" json:"status"` // pending, accepted

	CreatedAt time.Time `json:"created_at"`
}

func (ConnectionRequest) TableName() string {
	return "connection_requests"
}

// PairKey 为无序用户对生成规范化键，两个方向得到同一个键
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// GroupInvitation 群组邀请 / 入群申请
// UserID 始终是群组外的那一方（被邀请者或申请者），Kind 区分方向；
// (GroupID, UserID) 唯一索引保证同一用户对同一群组至多一条未删除记录
type GroupInvitation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GroupID  uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	SenderID uint   `gorm:"not null" json:"sender_id"`
	Kind     string `gorm:"not null" json:"kind"`          // invite, join_request
	Status   string `gorm:"default:pending" json:"status"` // pending, accepted

	CreatedAt time.Time `json:"created_at"`
}

func (GroupInvitation) TableName() string {
	return "group_invitations"
}
