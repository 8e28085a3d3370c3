package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/models"
)

// InvitationRepository 群组邀请/入群申请仓储
// (group_id, user_id) 唯一索引保证同一用户对同一群组至多一条记录
type InvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository 创建邀请仓储实例
func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create 创建邀请或入群申请
func (r *InvitationRepository) Create(inv *models.GroupInvitation) error {
	return r.db.Create(inv).Error
}

// GetByID 根据 ID 获取记录，不存在时返回 (nil, nil)
func (r *InvitationRepository) GetByID(id uint) (*models.GroupInvitation, error) {
	var inv models.GroupInvitation
	if err := r.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// GetByGroupAndUser 获取某用户与某群组之间的记录（任一方向、任意状态）
func (r *InvitationRepository) GetByGroupAndUser(groupID, userID uint) (*models.GroupInvitation, error) {
	var inv models.GroupInvitation
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// Update 更新记录
func (r *InvitationRepository) Update(inv *models.GroupInvitation) error {
	return r.db.Save(inv).Error
}

// Delete 删除记录（拒绝即删除）
func (r *InvitationRepository) Delete(id uint) error {
	return r.db.Delete(&models.GroupInvitation{}, id).Error
}

// DeleteByGroupAndUser 删除某用户与某群组之间的残留记录
// 成员被移除或退群时调用，记录不存在不算错误
func (r *InvitationRepository) DeleteByGroupAndUser(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupInvitation{}).Error
}

// DeleteAllForGroup 删除群组名下的全部记录（群组删除时清理）
func (r *InvitationRepository) DeleteAllForGroup(groupID uint) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.GroupInvitation{}).Error
}

// ListPendingInvitesForUser 获取发给某用户的待处理邀请
func (r *InvitationRepository) ListPendingInvitesForUser(userID uint) ([]models.GroupInvitation, error) {
	var invs []models.GroupInvitation
	err := r.db.Where("user_id = ? AND kind = ? AND status = ?",
		userID, models.KindInvite, models.StatusPending).Find(&invs).Error
	return invs, err
}

// ListPendingJoinRequests 获取某群组的待处理入群申请
func (r *InvitationRepository) ListPendingJoinRequests(groupID uint) ([]models.GroupInvitation, error) {
	var invs []models.GroupInvitation
	err := r.db.Where("group_id = ? AND kind = ? AND status = ?",
		groupID, models.KindJoinRequest, models.StatusPending).Find(&invs).Error
	return invs, err
}

// ListForUser 获取涉及某用户的全部记录（用于探索过滤）
func (r *InvitationRepository) ListForUser(userID uint) ([]models.GroupInvitation, error) {
	var invs []models.GroupInvitation
	err := r.db.Where("user_id = ?", userID).Find(&invs).Error
	return invs, err
}
