package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gopher0727/LinkUp/internal/models"
)

// ErrDuplicateLink 表示对偶链接的一侧已经存在（并发写入时由唯一索引兜底）
var ErrDuplicateLink = errors.New("link already exists")

// GroupRepository 群组仓储，同时维护对偶链接的两侧：
// group_members（群组侧）与 user_groups（用户侧）
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组仓储实例
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create 创建群组
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// GetByID 根据 ID 获取群组，不存在时返回 (nil, nil)
func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// Update 更新群组
func (r *GroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// Delete 删除群组及其群组侧成员行
func (r *GroupRepository) Delete(id uint) error {
	if err := r.db.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Group{}, id).Error
}

// AddMember 向群组侧成员集合插入一行
// 联合主键保证并发写入时只有一个调用方成功，落败方收到 ErrDuplicateLink
func (r *GroupRepository) AddMember(groupID, userID uint) error {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupMember{GroupID: groupID, UserID: userID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateLink
	}
	return nil
}

// RemoveMember 从群组侧成员集合删除一行
func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

// IsMember 判断用户是否在群组侧成员集合中
func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs 获取群组侧成员集合的全部用户 ID
func (r *GroupRepository) MemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// AddUserGroup 向用户侧群组集合插入一行
func (r *GroupRepository) AddUserGroup(userID, groupID uint) error {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserGroup{UserID: userID, GroupID: groupID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateLink
	}
	return nil
}

// RemoveUserGroup 从用户侧群组集合删除一行
func (r *GroupRepository) RemoveUserGroup(userID, groupID uint) error {
	return r.db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.UserGroup{}).Error
}

// HasGroup 判断群组是否在用户侧群组集合中
func (r *GroupRepository) HasGroup(userID, groupID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserGroup{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	return count > 0, err
}

// GroupIDs 获取用户侧群组集合的全部群组 ID
func (r *GroupRepository) GroupIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserGroup{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

// ListByIDs 按 ID 列表获取群组
func (r *GroupRepository) ListByIDs(ids []uint) ([]models.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var groups []models.Group
	err := r.db.Where("id IN ?", ids).Find(&groups).Error
	return groups, err
}

// ListExcluding 获取不在排除列表中的所有群组
func (r *GroupRepository) ListExcluding(ids []uint) ([]models.Group, error) {
	var groups []models.Group
	query := r.db
	if len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}
	err := query.Find(&groups).Error
	return groups, err
}
