package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/internal/services"
)

type InvitationHandler struct {
	InvitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		InvitationService: invitationService,
	}
}

func (h *InvitationHandler) SendInvite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	receiverID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	inv, err := h.InvitationService.SendInviteByAdmin(userID, groupID, receiverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "invite sent", inv)
}

func (h *InvitationHandler) SendJoinRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	inv, err := h.InvitationService.SendJoinRequest(userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "join request sent", inv)
}

func (h *InvitationHandler) GetInvites(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	invs, err := h.InvitationService.ListInvitesForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "invites fetched", invs)
}

func (h *InvitationHandler) GetJoinRequests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	invs, err := h.InvitationService.ListJoinRequestsForAdmin(userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "join requests fetched", invs)
}

func (h *InvitationHandler) ReviewByAdmin(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	decision := c.Param("status")

	group, err := h.InvitationService.ReviewInviteByAdmin(userID, requestID, decision)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "request reviewed", group)
}

func (h *InvitationHandler) ReviewByUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	decision := c.Param("status")

	group, err := h.InvitationService.ReviewInviteByUser(userID, requestID, decision)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "invite reviewed", group)
}
