package repositories

import (
	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/models"
)

// ChatRepository 聊天历史清理仓储
// 消息的写入属于聊天子系统，本核心只在关系解除时清理历史
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天历史仓储实例
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// DeleteAllForGroup 删除群组名下的全部群聊消息
func (r *ChatRepository) DeleteAllForGroup(groupID uint) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.GroupMessage{}).Error
}

// DeleteAllBetween 删除一对用户之间的全部私聊消息
func (r *ChatRepository) DeleteAllBetween(a, b uint) error {
	return r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		a, b, b, a).Delete(&models.Message{}).Error
}
