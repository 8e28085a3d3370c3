package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/apperrors"
	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/notify"
	"github.com/Gopher0727/LinkUp/internal/repositories"
)

// InvitationService 群组邀请协议
// 两种入口共用一张台账：管理员邀请（invite）和用户入群申请（join_request），
// 以 (group, user) 去重——同一用户对同一群组同时至多一条未决记录
type InvitationService struct {
	invites InvitationStore
	groups  GroupStore
	users   UserStore
	notify  Notifier
}

// NewInvitationService 创建邀请服务实例
func NewInvitationService(invites InvitationStore, groups GroupStore, users UserStore, notifier Notifier) *InvitationService {
	return &InvitationService{
		invites: invites,
		groups:  groups,
		users:   users,
		notify:  notifier,
	}
}

func (s *InvitationService) invitationDTO(inv *models.GroupInvitation, group *models.Group, sender *models.User) InvitationDTO {
	return InvitationDTO{
		ID: inv.ID,
		Group: GroupRefDTO{
			ID:    group.ID,
			Name:  group.Name,
			Photo: group.Photo,
		},
		Sender:    newUserDTO(sender),
		UserID:    inv.UserID,
		Kind:      inv.Kind,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt.Format(timeLayout),
	}
}

// ensureNoExisting 去重检查：该用户与该群组之间不允许已有任何记录
func (s *InvitationService) ensureNoExisting(groupID, userID uint) error {
	existing, err := s.invites.GetByGroupAndUser(groupID, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if existing != nil {
		return apperrors.Conflictf("request for this group already exists")
	}
	return nil
}

// SendInviteByAdmin 管理员邀请用户
// 仅当群组是私有的、或接收方是私密用户时允许邀请；其余情况应使用直接添加
func (s *InvitationService) SendInviteByAdmin(callerID, groupID, receiverID uint) (*InvitationDTO, error) {
	if groupID == 0 {
		return nil, apperrors.Validationf("invalid group id")
	}

	if err := s.ensureNoExisting(groupID, receiverID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found to invite user")
	}

	receiver, err := s.users.GetByID(receiverID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if receiver == nil {
		return nil, apperrors.NotFoundf("user not found to send invite")
	}

	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admin can send invite to users")
	}

	if group.Visibility != models.VisibilityPrivate && !receiver.Privacy {
		return nil, apperrors.Conflictf("cannot invite users to public group, instead you can add them")
	}

	isMember, err := s.groups.IsMember(groupID, receiverID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if isMember {
		return nil, apperrors.Conflictf("cannot send invite to members of group")
	}

	sender, err := s.users.GetByID(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if sender == nil {
		return nil, apperrors.Unauthorizedf("unknown caller")
	}

	inv := &models.GroupInvitation{
		GroupID:  groupID,
		UserID:   receiverID,
		SenderID: callerID,
		Kind:     models.KindInvite,
		Status:   models.StatusPending,
	}
	if err := s.invites.Create(inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("request for this group already exists")
		}
		return nil, apperrors.Internal(err)
	}

	dto := s.invitationDTO(inv, group, sender)
	s.notify.Notify(receiverID, notify.EventNewGroupRequest, dto)
	return &dto, nil
}

// SendJoinRequest 用户申请加入私有群组（公开群组应直接加入）
func (s *InvitationService) SendJoinRequest(callerID, groupID uint) (*InvitationDTO, error) {
	if groupID == 0 {
		return nil, apperrors.Validationf("invalid group id")
	}

	if err := s.ensureNoExisting(groupID, callerID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found to request by user")
	}

	isMember, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if isMember {
		return nil, apperrors.Conflictf("already a member")
	}

	if group.Visibility != models.VisibilityPrivate {
		return nil, apperrors.Conflictf("cannot send request to public group, instead you can join it")
	}

	caller, err := s.users.GetByID(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if caller == nil {
		return nil, apperrors.Unauthorizedf("unknown caller")
	}

	inv := &models.GroupInvitation{
		GroupID:  groupID,
		UserID:   callerID,
		SenderID: callerID,
		Kind:     models.KindJoinRequest,
		Status:   models.StatusPending,
	}
	if err := s.invites.Create(inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("request for this group already exists")
		}
		return nil, apperrors.Internal(err)
	}

	dto := s.invitationDTO(inv, group, caller)
	s.notify.Notify(group.AdminID, notify.EventNewGroupRequest, dto)
	return &dto, nil
}

// ListInvitesForUser 获取发给调用方的待处理邀请
func (s *InvitationService) ListInvitesForUser(callerID uint) ([]InvitationDTO, error) {
	invs, err := s.invites.ListPendingInvitesForUser(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.loadDTOs(invs)
}

// ListJoinRequestsForAdmin 获取某私有群组的待处理入群申请，仅管理员可见
func (s *InvitationService) ListJoinRequestsForAdmin(callerID, groupID uint) ([]InvitationDTO, error) {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found to get requests for admin")
	}
	if group.Visibility == models.VisibilityPublic {
		return nil, apperrors.Conflictf("public groups will not have any requests")
	}
	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admins can get the requests of the users")
	}

	invs, err := s.invites.ListPendingJoinRequests(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.loadDTOs(invs)
}

func (s *InvitationService) loadDTOs(invs []models.GroupInvitation) ([]InvitationDTO, error) {
	dtos := make([]InvitationDTO, 0, len(invs))
	for i := range invs {
		inv := &invs[i]
		group, err := s.groups.GetByID(inv.GroupID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		sender, err := s.users.GetByID(inv.SenderID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if group == nil || sender == nil {
			continue
		}
		dtos = append(dtos, s.invitationDTO(inv, group, sender))
	}
	return dtos, nil
}

// ReviewInviteByAdmin 管理员审核入群申请
// 接受时成对写入对偶链接并通知全体成员；拒绝时删除记录
func (s *InvitationService) ReviewInviteByAdmin(callerID, requestID uint, decision string) (*GroupDTO, error) {
	if decision != models.StatusAccepted && decision != models.StatusRejected {
		return nil, apperrors.Validationf("invalid status for reviewing request")
	}

	inv, err := s.invites.GetByID(requestID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if inv == nil {
		return nil, apperrors.NotFoundf("request not found")
	}
	if inv.Kind != models.KindJoinRequest {
		return nil, apperrors.Validationf("request is not a join request")
	}
	if inv.Status != models.StatusPending {
		return nil, apperrors.Conflictf("request already reviewed")
	}

	group, err := s.groups.GetByID(inv.GroupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found")
	}
	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admins can review the requests")
	}

	isMember, err := s.groups.IsMember(group.ID, inv.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if isMember {
		return nil, apperrors.Conflictf("already a member of group")
	}

	if decision == models.StatusRejected {
		if err := s.invites.Delete(inv.ID); err != nil {
			return nil, apperrors.Internal(err)
		}
		dto := newGroupDTO(group, nil)
		return &dto, nil
	}

	newMember, err := s.users.GetByID(inv.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if newMember == nil {
		return nil, apperrors.NotFoundf("user not found")
	}

	if err := s.accept(inv, group, newMember); err != nil {
		return nil, err
	}

	members, err := s.memberSnapshots(group.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)
	return &dto, nil
}

// ReviewInviteByUser 用户审核收到的邀请，只有邀请的接收方可以审核
func (s *InvitationService) ReviewInviteByUser(callerID, requestID uint, decision string) (*GroupDTO, error) {
	if decision != models.StatusAccepted && decision != models.StatusRejected {
		return nil, apperrors.Validationf("invalid status")
	}

	inv, err := s.invites.GetByID(requestID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if inv == nil {
		return nil, apperrors.NotFoundf("request not found")
	}
	if inv.UserID != callerID {
		return nil, apperrors.Forbiddenf("only receiver can review the requests")
	}
	if inv.Kind != models.KindInvite {
		return nil, apperrors.Validationf("request is not an invite")
	}
	if inv.Status != models.StatusPending {
		return nil, apperrors.Conflictf("request already reviewed")
	}

	group, err := s.groups.GetByID(inv.GroupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found")
	}

	isMember, err := s.groups.IsMember(group.ID, callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if isMember {
		return nil, apperrors.Conflictf("already a member of group")
	}

	if decision == models.StatusRejected {
		if err := s.invites.Delete(inv.ID); err != nil {
			return nil, apperrors.Internal(err)
		}
		dto := newGroupDTO(group, nil)
		return &dto, nil
	}

	caller, err := s.users.GetByID(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if caller == nil {
		return nil, apperrors.Unauthorizedf("unknown caller")
	}

	if err := s.accept(inv, group, caller); err != nil {
		return nil, err
	}

	members, err := s.memberSnapshots(group.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)
	return &dto, nil
}

// accept 接受邀请：成对写入对偶链接（先群组侧后用户侧），
// 记录落库为 accepted，然后通知新成员和全体成员
// 群组侧冲突说明该用户已经入群，按状态冲突返回给审核方
func (s *InvitationService) accept(inv *models.GroupInvitation, group *models.Group, newMember *models.User) error {
	if err := s.groups.AddMember(group.ID, newMember.ID); err != nil {
		if err == repositories.ErrDuplicateLink {
			return apperrors.Conflictf("already a member of group")
		}
		return apperrors.Internal(err)
	}
	if err := s.groups.AddUserGroup(newMember.ID, group.ID); err != nil && err != repositories.ErrDuplicateLink {
		return apperrors.Internal(err)
	}

	inv.Status = models.StatusAccepted
	if err := s.invites.Update(inv); err != nil {
		return apperrors.Internal(err)
	}

	members, err := s.memberSnapshots(group.ID)
	if err == nil {
		s.notify.Notify(newMember.ID, notify.EventNewGroup, newGroupDTO(group, members))
	}

	memberIDs, err := s.groups.MemberIDs(group.ID)
	if err == nil {
		s.notify.NotifyMany(memberIDs, notify.EventNewMember, map[string]any{
			"group_id": group.ID,
			"user":     newUserDTO(newMember),
		})
	}
	return nil
}

func (s *InvitationService) memberSnapshots(groupID uint) ([]UserDTO, error) {
	ids, err := s.groups.MemberIDs(groupID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	return newUserDTOs(users), nil
}
