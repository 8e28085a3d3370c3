package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		GroupService: groupService,
	}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	req := services.CreateGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "请求参数格式错误"})
		return
	}

	group, err := h.GroupService.CreateGroup(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "group created successfully", group)
}

func (h *GroupHandler) GetGroups(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	groups, err := h.GroupService.GetGroups(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "groups fetched", groups)
}

func (h *GroupHandler) ExploreGroups(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	groups, err := h.GroupService.ExploreGroups(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "new groups fetched", groups)
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	group, err := h.GroupService.AddMember(userID, groupID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "member added to group", group)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	group, err := h.GroupService.RemoveMember(userID, groupID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "member removed from group", group)
}

func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	group, err := h.GroupService.JoinGroup(userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "joined the group", group)
}

func (h *GroupHandler) ExitGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	if err := h.GroupService.ExitGroup(userID, groupID); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "exited the group", nil)
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	if err := h.GroupService.DeleteGroup(userID, groupID); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "group deleted", nil)
}

func (h *GroupHandler) UpdateGroupMetadata(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	req := services.UpdateGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "请求参数格式错误"})
		return
	}

	group, err := h.GroupService.UpdateGroupMetadata(userID, groupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "group data updated", group)
}

func (h *GroupHandler) UpdateGroupPhoto(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	var req struct {
		Photo string `json:"photo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "请求参数格式错误"})
		return
	}

	group, err := h.GroupService.UpdateGroupPhoto(userID, groupID, req.Photo)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "group photo updated", group)
}

func (h *GroupHandler) GetEligibleConnections(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	var req struct {
		UserIDs []uint `json:"user_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "请求参数格式错误"})
		return
	}

	users, err := h.GroupService.ListEligibleConnectionsForGroup(userID, groupID, req.UserIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "eligible connections fetched", users)
}
