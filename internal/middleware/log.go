package middleware

import (
	"time"

	"clarifi/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID 每个响应都会带上请求 ID
const HeaderRequestID = "X-Request-ID"

// RequestLogger 每个请求记一行日志：request id、方法、路径、状态码、耗时、用户和错误
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)

		// 执行请求
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		ev = ev.Str(logger.FieldRequestID, reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if user, ok := CurrentUser(c); ok {
			ev = ev.Str(logger.FieldUserID, user.UserID)
		}
		// 这里记录完整错误（包括 AuthError 的原因），返回给客户端的只有规范化后的信息
		if len(c.Errors) > 0 {
			ev = ev.Err(c.Errors.Last().Err)
		}
		ev.Msg("request")
	}
}
