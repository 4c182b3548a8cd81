package handler

import (
	"time"

	"clarifi/internal/middleware"
	"clarifi/internal/models"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser 取出当前登录用户；没有时挂一个 AuthError 交给 ErrorHandler
func currentUser(c *gin.Context) (*models.Identity, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(util.NewAuthError("no identity in context", nil))
		return nil, false
	}
	return user, true
}

// loadLocation 解析 ?tz=Asia/Shanghai，空值用默认时区
func loadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, util.NewValidationError("tz", "unknown time zone "+name)
	}
	return loc, nil
}
