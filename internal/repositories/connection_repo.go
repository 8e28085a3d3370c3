package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/models"
)

// ConnectionRepository 用户连接请求仓储
// pair_key 上的唯一索引保证同一对用户间至多一条记录，
// 并发的重复创建由索引兜底，落败方收到 gorm.ErrDuplicatedKey
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository 创建连接请求仓储实例
func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create 创建连接请求，写入前补全 PairKey
func (r *ConnectionRepository) Create(req *models.ConnectionRequest) error {
	req.PairKey = models.PairKey(req.SenderID, req.ReceiverID)
	return r.db.Create(req).Error
}

// GetByID 根据 ID 获取连接请求，不存在时返回 (nil, nil)
func (r *ConnectionRepository) GetByID(id uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// GetByPair 获取一对用户间的请求（任意方向、任意状态）
func (r *ConnectionRepository) GetByPair(a, b uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.Where("pair_key = ?", models.PairKey(a, b)).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Update 更新连接请求
func (r *ConnectionRepository) Update(req *models.ConnectionRequest) error {
	return r.db.Save(req).Error
}

// Delete 删除连接请求（拒绝即删除，不保留墓碑）
func (r *ConnectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.ConnectionRequest{}, id).Error
}

// DeleteAcceptedByPair 删除一对用户间已接受的连接，返回被删除的记录
// 不存在时返回 (nil, nil)
func (r *ConnectionRepository) DeleteAcceptedByPair(a, b uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.StatusAccepted).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.db.Delete(&models.ConnectionRequest{}, req.ID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListForUser 获取涉及某用户的全部请求（任意方向、任意状态）
func (r *ConnectionRepository) ListForUser(userID uint) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Find(&reqs).Error
	return reqs, err
}

// ListPendingForReceiver 获取发给某用户的待处理请求
func (r *ConnectionRepository) ListPendingForReceiver(userID uint) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.Where("receiver_id = ? AND status = ?", userID, models.StatusPending).Find(&reqs).Error
	return reqs, err
}

// ListAcceptedForUser 获取某用户的全部已接受连接（社交图的边）
func (r *ConnectionRepository) ListAcceptedForUser(userID uint) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
		userID, userID, models.StatusAccepted).Find(&reqs).Error
	return reqs, err
}
