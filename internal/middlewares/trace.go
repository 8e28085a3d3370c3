package middlewares

import (
	"github.com/gin-gonic/gin"

	logger "github.com/Gopher0727/LinkUp/middleware/log"
)

// TraceMiddleware 为每个请求注入 trace_id，贯穿日志链路
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = logger.NewTraceID()
		}

		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}
