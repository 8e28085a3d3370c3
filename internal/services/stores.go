package services

import (
	"github.com/Gopher0727/LinkUp/internal/models"
)

// 服务层依赖的存储契约，由 repositories 包的 gorm 实现满足
// 所有查询方法在记录不存在时返回 (nil, nil) 而不是错误

// UserStore 身份存储
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByHandle(handle string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	ListByIDs(ids []uint) ([]models.User, error)
	ListExcluding(ids []uint) ([]models.User, error)
}

// GroupStore 群组存储，持有对偶链接的两侧
type GroupStore interface {
	Create(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	Update(group *models.Group) error
	Delete(id uint) error

	AddMember(groupID, userID uint) error
	RemoveMember(groupID, userID uint) error
	IsMember(groupID, userID uint) (bool, error)
	MemberIDs(groupID uint) ([]uint, error)

	AddUserGroup(userID, groupID uint) error
	RemoveUserGroup(userID, groupID uint) error
	HasGroup(userID, groupID uint) (bool, error)
	GroupIDs(userID uint) ([]uint, error)

	ListByIDs(ids []uint) ([]models.Group, error)
	ListExcluding(ids []uint) ([]models.Group, error)
}

// ConnectionStore 连接请求台账
type ConnectionStore interface {
	Create(req *models.ConnectionRequest) error
	GetByID(id uint) (*models.ConnectionRequest, error)
	GetByPair(a, b uint) (*models.ConnectionRequest, error)
	Update(req *models.ConnectionRequest) error
	Delete(id uint) error
	DeleteAcceptedByPair(a, b uint) (*models.ConnectionRequest, error)
	ListForUser(userID uint) ([]models.ConnectionRequest, error)
	ListPendingForReceiver(userID uint) ([]models.ConnectionRequest, error)
	ListAcceptedForUser(userID uint) ([]models.ConnectionRequest, error)
}

// InvitationStore 群组邀请台账
type InvitationStore interface {
	Create(inv *models.GroupInvitation) error
	GetByID(id uint) (*models.GroupInvitation, error)
	GetByGroupAndUser(groupID, userID uint) (*models.GroupInvitation, error)
	Update(inv *models.GroupInvitation) error
	Delete(id uint) error
	DeleteByGroupAndUser(groupID, userID uint) error
	DeleteAllForGroup(groupID uint) error
	ListPendingInvitesForUser(userID uint) ([]models.GroupInvitation, error)
	ListPendingJoinRequests(groupID uint) ([]models.GroupInvitation, error)
	ListForUser(userID uint) ([]models.GroupInvitation, error)
}

// ChatStore 聊天历史协作方，仅暴露清理操作
type ChatStore interface {
	DeleteAllForGroup(groupID uint) error
	DeleteAllBetween(a, b uint) error
}

// Notifier 通知扇出契约
// 只能在权威写入提交之后调用；实现必须不阻塞、不向调用方返回失败
type Notifier interface {
	Notify(userID uint, event string, payload any)
	NotifyMany(userIDs []uint, event string, payload any)
}
