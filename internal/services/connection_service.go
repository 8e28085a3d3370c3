package services

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/apperrors"
	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/notify"
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ConnectionService 用户连接请求协议
// pending → accepted 落库为社交图的边；pending → rejected 直接删除记录
type ConnectionService struct {
	connections ConnectionStore
	users       UserStore
	chats       ChatStore
	notify      Notifier
}

// NewConnectionService 创建连接服务实例
func NewConnectionService(connections ConnectionStore, users UserStore, chats ChatStore, notifier Notifier) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		users:       users,
		chats:       chats,
		notify:      notifier,
	}
}

// SendConnectionRequest 发送连接请求
// 同一对用户间任一方向已存在记录（无论状态）时拒绝，防止重复关系
func (s *ConnectionService) SendConnectionRequest(callerID, targetID uint) (*ConnectionRequestDTO, error) {
	if targetID == callerID {
		return nil, apperrors.Conflictf("cannot send request to yourself")
	}

	target, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if target == nil {
		return nil, apperrors.NotFoundf("user not found to send connection request")
	}

	existing, err := s.connections.GetByPair(callerID, targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflictf("request already exists")
	}

	caller, err := s.users.GetByID(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if caller == nil {
		return nil, apperrors.Unauthorizedf("unknown caller")
	}

	req := &models.ConnectionRequest{
		SenderID:   callerID,
		ReceiverID: targetID,
		Status:     models.StatusPending,
	}
	if err := s.connections.Create(req); err != nil {
		// 唯一索引兜底：并发的重复发送只有一个成功
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("request already exists")
		}
		return nil, apperrors.Internal(err)
	}

	dto := ConnectionRequestDTO{
		ID:         req.ID,
		Sender:     newUserDTO(caller),
		ReceiverID: targetID,
		Status:     req.Status,
		CreatedAt:  req.CreatedAt.Format(timeLayout),
	}

	s.notify.Notify(targetID, notify.EventNewUserRequest, dto)
	return &dto, nil
}

// GetPendingRequests 获取发给调用方的待处理连接请求
func (s *ConnectionService) GetPendingRequests(callerID uint) ([]ConnectionRequestDTO, error) {
	reqs, err := s.connections.ListPendingForReceiver(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dtos := make([]ConnectionRequestDTO, 0, len(reqs))
	for _, req := range reqs {
		sender, err := s.users.GetByID(req.SenderID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if sender == nil {
			continue
		}
		dtos = append(dtos, ConnectionRequestDTO{
			ID:         req.ID,
			Sender:     newUserDTO(sender),
			ReceiverID: req.ReceiverID,
			Status:     req.Status,
			CreatedAt:  req.CreatedAt.Format(timeLayout),
		})
	}
	return dtos, nil
}

// ReviewConnectionRequest 审核连接请求，只有请求的接收方可以审核
// accepted 落库保留；rejected 立即删除，第二次审核会得到 NotFound
func (s *ConnectionService) ReviewConnectionRequest(callerID, requestID uint, decision string) (*ConnectionRequestDTO, error) {
	if decision != models.StatusAccepted && decision != models.StatusRejected {
		return nil, apperrors.Validationf("invalid status value")
	}

	req, err := s.connections.GetByID(requestID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if req == nil {
		return nil, apperrors.NotFoundf("request not found with this id")
	}
	if req.ReceiverID != callerID {
		return nil, apperrors.Forbiddenf("only the receiver can review the request")
	}
	if req.Status != models.StatusPending {
		return nil, apperrors.Conflictf("request already reviewed")
	}

	sender, err := s.users.GetByID(req.SenderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if sender == nil {
		return nil, apperrors.NotFoundf("sender not found")
	}

	if decision == models.StatusRejected {
		if err := s.connections.Delete(req.ID); err != nil {
			return nil, apperrors.Internal(err)
		}
		return &ConnectionRequestDTO{
			ID:         req.ID,
			Sender:     newUserDTO(sender),
			ReceiverID: req.ReceiverID,
			Status:     models.StatusRejected,
			CreatedAt:  req.CreatedAt.Format(timeLayout),
		}, nil
	}

	req.Status = models.StatusAccepted
	if err := s.connections.Update(req); err != nil {
		return nil, apperrors.Internal(err)
	}

	reviewer, err := s.users.GetByID(callerID)
	if err == nil && reviewer != nil {
		s.notify.Notify(req.SenderID, notify.EventNewConnection, newUserDTO(reviewer))
	}

	return &ConnectionRequestDTO{
		ID:         req.ID,
		Sender:     newUserDTO(sender),
		ReceiverID: req.ReceiverID,
		Status:     req.Status,
		CreatedAt:  req.CreatedAt.Format(timeLayout),
	}, nil
}

// RemoveConnection 解除已接受的连接，同时清理双方的私聊历史
func (s *ConnectionService) RemoveConnection(callerID, targetID uint) error {
	req, err := s.connections.DeleteAcceptedByPair(callerID, targetID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if req == nil {
		return apperrors.NotFoundf("user connection not found to remove")
	}

	if err := s.chats.DeleteAllBetween(callerID, targetID); err != nil {
		return apperrors.Internal(err)
	}

	s.notify.Notify(targetID, notify.EventRemovedConnection, callerID)
	return nil
}

// GetConnections 获取调用方的全部连接，解析成对端用户快照
func (s *ConnectionService) GetConnections(callerID uint) ([]UserDTO, error) {
	reqs, err := s.connections.ListAcceptedForUser(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dtos := make([]UserDTO, 0, len(reqs))
	for _, req := range reqs {
		otherID := req.SenderID
		if otherID == callerID {
			otherID = req.ReceiverID
		}
		other, err := s.users.GetByID(otherID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if other == nil {
			continue
		}
		dtos = append(dtos, newUserDTO(other))
	}
	return dtos, nil
}

// ExploreUsers 获取可以发起连接的新用户：
// 排除自己和任何已有请求往来（任意方向、任意状态）的用户
func (s *ConnectionService) ExploreUsers(callerID uint) ([]UserDTO, error) {
	engaged, err := s.connections.ListForUser(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	hidden := make([]uint, 0, len(engaged)+1)
	hidden = append(hidden, callerID)
	for _, req := range engaged {
		if req.SenderID == callerID {
			hidden = append(hidden, req.ReceiverID)
		} else {
			hidden = append(hidden, req.SenderID)
		}
	}

	users, err := s.users.ListExcluding(hidden)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return newUserDTOs(users), nil
}

// SearchResult 用户搜索结果，Request 携带双方已有的请求（如果有）
type SearchResult struct {
	User    UserDTO               `json:"user"`
	Request *ConnectionRequestDTO `json:"request"`
}

// SearchUser 按用户名精确查找用户
func (s *ConnectionService) SearchUser(callerID uint, callerHandle, handle string) (*SearchResult, error) {
	if handle == "" {
		return nil, apperrors.Validationf("handle is required")
	}
	if handle == callerHandle {
		return nil, apperrors.Validationf("you cannot search yourself")
	}
	if len(handle) > 18 {
		return nil, apperrors.Validationf("handle can't be more than 18 characters")
	}
	if !handlePattern.MatchString(handle) {
		return nil, apperrors.Validationf("handle contains invalid characters")
	}

	user, err := s.users.GetByHandle(handle)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFoundf("user not found via handle")
	}

	result := &SearchResult{User: newUserDTO(user)}

	existing, err := s.connections.GetByPair(callerID, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		sender, err := s.users.GetByID(existing.SenderID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if sender != nil {
			result.Request = &ConnectionRequestDTO{
				ID:         existing.ID,
				Sender:     newUserDTO(sender),
				ReceiverID: existing.ReceiverID,
				Status:     existing.Status,
				CreatedAt:  existing.CreatedAt.Format(timeLayout),
			}
		}
	}
	return result, nil
}
