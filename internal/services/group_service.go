package services

import (
	"github.com/Gopher0727/LinkUp/internal/apperrors"
	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/notify"
	"github.com/Gopher0727/LinkUp/internal/repositories"
)

// GroupService 成员一致性引擎
// 唯一允许改动 user.groups / group.members 对偶集合的组件：
// 每次加入都成对写入两侧（先群组侧后用户侧），每次移除同样成对删除
type GroupService struct {
	groups  GroupStore
	users   UserStore
	invites InvitationStore
	chats   ChatStore
	notify  Notifier
}

// NewGroupService 创建群组服务实例
func NewGroupService(groups GroupStore, users UserStore, invites InvitationStore, chats ChatStore, notifier Notifier) *GroupService {
	return &GroupService{
		groups:  groups,
		users:   users,
		invites: invites,
		chats:   chats,
		notify:  notifier,
	}
}

// CreateGroupRequest 创建群组请求
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// UpdateGroupRequest 更新群组资料请求，至少提供一个字段
type UpdateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// memberDTOs 加载群组侧成员集合的用户快照
func (s *GroupService) memberDTOs(groupID uint) ([]UserDTO, error) {
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

// getGroup 加载群组，不存在时返回 NotFound
func (s *GroupService) getGroup(groupID uint) (*models.Group, error) {
	if groupID == 0 {
		return nil, apperrors.Validationf("invalid group id")
	}
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("group not found")
	}
	return group, nil
}

// CreateGroup 创建群组，创建者成为唯一成员和管理员
func (s *GroupService) CreateGroup(adminID uint, req *CreateGroupRequest) (*GroupDTO, error) {
	if req.Name == "" || len(req.Name) > 50 {
		return nil, apperrors.Validationf("group name length invalid")
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, apperrors.Validationf("invalid visibility value")
	}

	admin, err := s.users.GetByID(adminID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if admin == nil {
		return nil, apperrors.NotFoundf("user not found")
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     adminID,
		Visibility:  visibility,
	}
	if err := s.groups.Create(group); err != nil {
		return nil, apperrors.Internal(err)
	}

	// 对偶链接：先群组侧，后用户侧
	if err := s.groups.AddMember(group.ID, adminID); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.groups.AddUserGroup(adminID, group.ID); err != nil {
		return nil, apperrors.Internal(err)
	}

	dto := newGroupDTO(group, []UserDTO{newUserDTO(admin)})
	return &dto, nil
}

// AddMember 直接添加成员
// 私有群组只有管理员可以添加；私密用户不能被直接添加，只能走邀请协议
func (s *GroupService) AddMember(callerID, groupID, targetID uint) (*GroupDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}

	if group.Visibility == models.VisibilityPrivate && group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admins can add members to private groups")
	}
	if targetID == callerID {
		return nil, apperrors.Conflictf("cannot add yourself to the group")
	}

	isMember, err := s.groups.IsMember(groupID, targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if isMember {
		return nil, apperrors.Conflictf("already a member of group")
	}

	target, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if target == nil {
		return nil, apperrors.NotFoundf("user not found to add")
	}
	if target.Privacy {
		return nil, apperrors.Conflictf("cannot add private user")
	}

	if err := s.linkMember(groupID, targetID); err != nil {
		return nil, err
	}

	members, err := s.memberDTOs(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)

	s.notify.Notify(targetID, notify.EventNewGroup, dto)
	s.notifyMembers(groupID, notify.EventNewMember, map[string]any{
		"group_id": groupID,
		"user":     newUserDTO(target),
	})

	return &dto, nil
}

// linkMember 成对写入对偶链接，群组侧冲突说明并发写入方已成功
// 用户侧失败时向调用方暴露错误，留给下一次读取时对账，绝不静默吞掉
func (s *GroupService) linkMember(groupID, userID uint) error {
	if err := s.groups.AddMember(groupID, userID); err != nil {
		if err == repositories.ErrDuplicateLink {
			return apperrors.Conflictf("already a member of group")
		}
		return apperrors.Internal(err)
	}
	if err := s.groups.AddUserGroup(userID, groupID); err != nil && err != repositories.ErrDuplicateLink {
		return apperrors.Internal(err)
	}
	return nil
}

// unlinkMember 成对删除对偶链接，顺序与写入一致
func (s *GroupService) unlinkMember(groupID, userID uint) error {
	if err := s.groups.RemoveMember(groupID, userID); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.groups.RemoveUserGroup(userID, groupID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// notifyMembers 向群组侧成员集合的全部成员扇出事件
func (s *GroupService) notifyMembers(groupID uint, event string, payload any) {
	ids, err := s.groups.MemberIDs(groupID)
	if err != nil {
		// 扇出失败不影响已提交的写入
		return
	}
	s.notify.NotifyMany(ids, event, payload)
}

// RemoveMember 管理员移除成员
// 自移除必须走 ExitGroup；同时清理该用户与群组之间的残留邀请/申请
func (s *GroupService) RemoveMember(callerID, groupID, targetID uint) (*GroupDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}

	if targetID == callerID {
		return nil, apperrors.Conflictf("cannot remove yourself from the group, instead you can delete the group")
	}

	target, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if target == nil {
		return nil, apperrors.NotFoundf("user not found to remove from group")
	}

	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admins can remove the members")
	}

	isMember, err := s.groups.IsMember(groupID, targetID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !isMember {
		return nil, apperrors.Conflictf("user is not in the group, can't remove")
	}

	if err := s.unlinkMember(groupID, targetID); err != nil {
		return nil, err
	}
	if err := s.invites.DeleteByGroupAndUser(groupID, targetID); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notify.Notify(targetID, notify.EventRemovedGroup, groupID)
	s.notifyMembers(groupID, notify.EventUpdatedMembers, map[string]any{
		"group_id": groupID,
		"user_id":  targetID,
	})

	members, err := s.memberDTOs(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)
	return &dto, nil
}

// JoinGroup 加入公开群组
// 成员资格从两侧分别检查，任一侧已存在都按已加入处理，绝不崩溃
func (s *GroupService) JoinGroup(callerID, groupID uint) (*GroupDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}

	hasGroup, err := s.groups.HasGroup(callerID, groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	isMember, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if hasGroup || isMember {
		return nil, apperrors.Conflictf("already joined the group")
	}

	if group.Visibility == models.VisibilityPrivate {
		return nil, apperrors.Conflictf("group is private, cannot join without invite")
	}

	caller, err := s.users.GetByID(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if caller == nil {
		return nil, apperrors.NotFoundf("user not found")
	}

	if err := s.linkMember(groupID, callerID); err != nil {
		return nil, err
	}

	s.notifyMembers(groupID, notify.EventNewMember, map[string]any{
		"group_id": groupID,
		"user":     newUserDTO(caller),
	})

	members, err := s.memberDTOs(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)
	return &dto, nil
}

// ExitGroup 退出群组
// 管理员不能退出，只能删除群组；同时清理残留的邀请/申请
func (s *GroupService) ExitGroup(callerID, groupID uint) error {
	group, err := s.getGroup(groupID)
	if err != nil {
		return err
	}

	if group.AdminID == callerID {
		return apperrors.Conflictf("admins cannot leave the group, they must delete it")
	}

	hasGroup, err := s.groups.HasGroup(callerID, groupID)
	if err != nil {
		return apperrors.Internal(err)
	}
	isMember, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !hasGroup && !isMember {
		return apperrors.Conflictf("you must be part of the group to leave it")
	}

	if err := s.invites.DeleteByGroupAndUser(groupID, callerID); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.unlinkMember(groupID, callerID); err != nil {
		return err
	}

	s.notifyMembers(groupID, notify.EventUpdatedMembers, map[string]any{
		"group_id": groupID,
		"user_id":  callerID,
	})
	return nil
}

// DeleteGroup 管理员删除群组
// 从每个成员的用户侧集合移除引用，清理群聊历史与邀请台账，最后删除群组记录
func (s *GroupService) DeleteGroup(callerID, groupID uint) error {
	group, err := s.getGroup(groupID)
	if err != nil {
		return err
	}

	if group.AdminID != callerID {
		return apperrors.Forbiddenf("only the admin can delete the group")
	}

	memberIDs, err := s.groups.MemberIDs(groupID)
	if err != nil {
		return apperrors.Internal(err)
	}
	for _, memberID := range memberIDs {
		if err := s.groups.RemoveUserGroup(memberID, groupID); err != nil {
			return apperrors.Internal(err)
		}
	}

	if err := s.chats.DeleteAllForGroup(groupID); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.invites.DeleteAllForGroup(groupID); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.groups.Delete(groupID); err != nil {
		return apperrors.Internal(err)
	}

	s.notify.NotifyMany(memberIDs, notify.EventRemovedGroup, groupID)
	return nil
}

// UpdateGroupMetadata 管理员更新群组资料（部分更新，至少一个字段）
func (s *GroupService) UpdateGroupMetadata(callerID, groupID uint, req *UpdateGroupRequest) (*GroupDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admin can edit the group info")
	}

	if req.Name == "" && req.Description == "" && req.Visibility == "" {
		return nil, apperrors.Validationf("at least one field is required")
	}
	if req.Visibility != "" {
		if req.Visibility != models.VisibilityPublic && req.Visibility != models.VisibilityPrivate {
			return nil, apperrors.Validationf("invalid visibility value")
		}
		group.Visibility = req.Visibility
	}
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != "" {
		group.Description = req.Description
	}

	if err := s.groups.Update(group); err != nil {
		return nil, apperrors.Internal(err)
	}

	members, err := s.memberDTOs(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)

	s.notifyMembers(groupID, notify.EventUpdatedGroupData, map[string]any{
		"group_id": groupID,
		"group":    dto,
	})
	return &dto, nil
}

// UpdateGroupPhoto 管理员更新群组头像
func (s *GroupService) UpdateGroupPhoto(callerID, groupID uint, photo string) (*GroupDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != callerID {
		return nil, apperrors.Forbiddenf("only admin can edit the group info")
	}
	if photo == "" {
		return nil, apperrors.Validationf("image is required")
	}

	group.Photo = photo
	if err := s.groups.Update(group); err != nil {
		return nil, apperrors.Internal(err)
	}

	members, err := s.memberDTOs(groupID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dto := newGroupDTO(group, members)

	s.notifyMembers(groupID, notify.EventUpdatedGroupData, map[string]any{
		"group_id": groupID,
		"group":    dto,
	})
	return &dto, nil
}

// ListEligibleConnectionsForGroup 过滤出可以被邀请进群的候选用户：
// 不是成员、用户存在、且与该群组没有未决的邀请/申请。纯过滤，无副作用
func (s *GroupService) ListEligibleConnectionsForGroup(callerID, groupID uint, candidateIDs []uint) ([]UserDTO, error) {
	group, err := s.getGroup(groupID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !isMember {
		return nil, apperrors.Forbiddenf("cannot add members without joining the group")
	}
	if group.AdminID != callerID && group.Visibility != models.VisibilityPublic {
		return nil, apperrors.Forbiddenf("only admin can add members in private groups")
	}

	if len(candidateIDs) == 0 {
		return nil, apperrors.Validationf("no connections to add members to group")
	}

	eligible := make([]UserDTO, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		isMember, err := s.groups.IsMember(groupID, candidateID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if isMember {
			continue
		}
		user, err := s.users.GetByID(candidateID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if user == nil {
			continue
		}
		existing, err := s.invites.GetByGroupAndUser(groupID, candidateID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if existing != nil {
			continue
		}
		eligible = append(eligible, newUserDTO(user))
	}
	return eligible, nil
}

// GetGroups 获取调用方所在的全部群组（含成员快照）
func (s *GroupService) GetGroups(callerID uint) ([]GroupDTO, error) {
	ids, err := s.groups.GroupIDs(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	groups, err := s.groups.ListByIDs(ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for i := range groups {
		members, err := s.memberDTOs(groups[i].ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		dtos = append(dtos, newGroupDTO(&groups[i], members))
	}
	return dtos, nil
}

// ExploreGroups 获取调用方可以加入的新群组：
// 排除已加入的群组和已有邀请/申请往来的群组
func (s *GroupService) ExploreGroups(callerID uint) ([]GroupDTO, error) {
	own, err := s.groups.GroupIDs(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	invs, err := s.invites.ListForUser(callerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	avoid := make([]uint, 0, len(own)+len(invs))
	avoid = append(avoid, own...)
	for _, inv := range invs {
		avoid = append(avoid, inv.GroupID)
	}

	groups, err := s.groups.ListExcluding(avoid)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for i := range groups {
		dtos = append(dtos, newGroupDTO(&groups[i], nil))
	}
	return dtos, nil
}
