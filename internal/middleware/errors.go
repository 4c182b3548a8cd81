package middleware

import (
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 统一错误出口：把 c.Error 挂上的最后一个错误映射成状态码并返回。
// 已经写过响应的请求不再处理
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, msg := util.StatusFor(c.Errors.Last().Err)
		util.Error(c, status, msg)
	}
}
