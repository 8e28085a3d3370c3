package models

import (
	"time"
)

// Message 私聊消息模型
// 消息的写入与已读状态由聊天子系统负责，本核心只在连接解除时清理历史
type Message struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Content    string    `gorm:"not null" json:"content"`
	MsgType    string    `gorm:"default:text" json:"msg_type"` // text, image
	CreatedAt  time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// GroupMessage 群聊消息模型，群组删除时随群组一并清理
type GroupMessage struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"not null" json:"content"`
	MsgType   string    `gorm:"default:text" json:"msg_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (GroupMessage) TableName() string {
	return "group_messages"
}
