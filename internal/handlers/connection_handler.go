package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/internal/services"
)

type ConnectionHandler struct {
	ConnectionService *services.ConnectionService
}

func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		ConnectionService: connectionService,
	}
}

func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	req, err := h.ConnectionService.SendConnectionRequest(userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "connection request sent", req)
}

func (h *ConnectionHandler) GetPendingRequests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	reqs, err := h.ConnectionService.GetPendingRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "pending requests fetched", reqs)
}

func (h *ConnectionHandler) ReviewRequest(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	decision := c.Param("status")

	req, err := h.ConnectionService.ReviewConnectionRequest(userID, requestID, decision)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "request reviewed", req)
}

func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.ConnectionService.RemoveConnection(userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "connection removed", nil)
}

func (h *ConnectionHandler) GetConnections(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	users, err := h.ConnectionService.GetConnections(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "connections fetched", users)
}

func (h *ConnectionHandler) ExploreUsers(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	users, err := h.ConnectionService.ExploreUsers(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "new users fetched", users)
}

func (h *ConnectionHandler) SearchUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	handle := c.GetString("handle")

	result, err := h.ConnectionService.SearchUser(userID, handle, c.Query("handle"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "user found", result)
}
