package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/internal/handlers"
	"github.com/Gopher0727/LinkUp/internal/middlewares"
	"github.com/Gopher0727/LinkUp/internal/presence"
	"github.com/Gopher0727/LinkUp/internal/ws"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	connectionHandler *handlers.ConnectionHandler,
	invitationHandler *handlers.InvitationHandler,
	hub *ws.Hub, // 注入 Hub
	tracker *presence.Tracker, // 注入在线状态追踪
) {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.Use(middlewares.TraceMiddleware())

	// WebSocket 路由 (必须在 AsyncMiddleware 之前注册，避免握手请求被放入 Worker Pool)
	r.GET("/ws", middlewares.AuthMiddleware(), func(c *gin.Context) {
		ws.ServeWs(hub, tracker, c)
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	// 异步处理中间件
	// 将请求放入 Worker Pool 中排队执行
	r.Use(middlewares.AsyncMiddleware())

	// 注册路由
	RegisterUserRoutes(r, userHandler)
	RegisterGroupRoutes(r, groupHandler, invitationHandler)
	RegisterConnectionRoutes(r, connectionHandler)
}

// RegisterUserRoutes 账号与个人资料
func RegisterUserRoutes(r *gin.Engine, userHandler *handlers.UserHandler) {
	userGroup := r.Group("/api/v1/users")
	{
		userGroup.POST("/register", userHandler.Register) // 注册
		userGroup.POST("/login", userHandler.Login)       // 登录
	}
	userGroup.Use(middlewares.AuthMiddleware())
	{
		userGroup.GET("/me", userHandler.GetProfile)      // 获取当前用户信息
		userGroup.PATCH("/me", userHandler.UpdateProfile) // 更新昵称、头像、隐私设置
	}
}

// RegisterGroupRoutes 群组成员与邀请协议
func RegisterGroupRoutes(r *gin.Engine, groupHandler *handlers.GroupHandler, invitationHandler *handlers.InvitationHandler) {
	groupGroup := r.Group("/api/v1/groups")
	groupGroup.Use(middlewares.AuthMiddleware())
	{
		groupGroup.POST("", groupHandler.CreateGroup)          // 创建群组
		groupGroup.GET("/mine", groupHandler.GetGroups)        // 获取我的群组列表
		groupGroup.GET("/explore", groupHandler.ExploreGroups) // 发现可加入的群组

		// 成员管理
		groupGroup.POST("/:group_id/members/:user_id", groupHandler.AddMember)      // 直接添加成员
		groupGroup.DELETE("/:group_id/members/:user_id", groupHandler.RemoveMember) // 管理员移除成员
		groupGroup.POST("/:group_id/join", groupHandler.JoinGroup)                  // 加入公开群组
		groupGroup.POST("/:group_id/exit", groupHandler.ExitGroup)                  // 退出群组
		groupGroup.DELETE("/:group_id", groupHandler.DeleteGroup)                   // 删除群组

		// 群组资料
		groupGroup.PATCH("/:group_id", groupHandler.UpdateGroupMetadata)    // 更新群组资料
		groupGroup.PATCH("/:group_id/photo", groupHandler.UpdateGroupPhoto) // 更新群组头像

		// 邀请协议
		groupGroup.POST("/:group_id/eligible", groupHandler.GetEligibleConnections)  // 过滤可邀请的候选人
		groupGroup.POST("/:group_id/invites/:user_id", invitationHandler.SendInvite) // 管理员发出邀请
		groupGroup.POST("/:group_id/requests", invitationHandler.SendJoinRequest)    // 用户申请加入
		groupGroup.GET("/:group_id/requests", invitationHandler.GetJoinRequests)     // 管理员查看入群申请
	}

	requestGroup := r.Group("/api/v1/group-requests")
	requestGroup.Use(middlewares.AuthMiddleware())
	{
		requestGroup.GET("", invitationHandler.GetInvites)                                // 我收到的邀请
		requestGroup.PATCH("/:request_id/admin/:status", invitationHandler.ReviewByAdmin) // 管理员审核入群申请
		requestGroup.PATCH("/:request_id/user/:status", invitationHandler.ReviewByUser)   // 用户审核收到的邀请
	}
}

// RegisterConnectionRoutes 用户连接协议
func RegisterConnectionRoutes(r *gin.Engine, connectionHandler *handlers.ConnectionHandler) {
	connGroup := r.Group("/api/v1/connections")
	connGroup.Use(middlewares.AuthMiddleware())
	{
		connGroup.GET("", connectionHandler.GetConnections)       // 我的连接列表
		connGroup.GET("/explore", connectionHandler.ExploreUsers) // 发现新用户
		connGroup.GET("/search", connectionHandler.SearchUser)    // 按用户名查找

		connGroup.POST("/requests/:user_id", connectionHandler.SendRequest)               // 发送连接请求
		connGroup.GET("/requests", connectionHandler.GetPendingRequests)                  // 待处理请求
		connGroup.PATCH("/requests/:request_id/:status", connectionHandler.ReviewRequest) // 审核请求

		connGroup.DELETE("/:user_id", connectionHandler.RemoveConnection) // 解除连接
	}
}
