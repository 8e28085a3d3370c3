package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/internal/apperrors"
)

// respondSuccess 统一成功响应
func respondSuccess(c *gin.Context, code int, message string, data any) {
	body := gin.H{"status": "success", "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// respondError 统一错误响应，状态码由错误类别映射
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"status":  "error",
		"message": apperrors.PublicMessage(err),
	})
}

// callerID 从认证中间件注入的上下文取调用方 ID
func callerID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "未授权访问"})
		return 0, false
	}
	return userID.(uint), true
}

// pathID 解析路径参数中的数字 ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
