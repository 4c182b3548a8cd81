package handler

import (
	"context"
	"net/http"
	"time"

	"clarifi/internal/database"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler 健康检查，顺带检查数据库连通性
type HealthHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{DB: db, Now: time.Now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.DB); err != nil {
		util.Error(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	util.Success(c, gin.H{
		"status":   "ok",
		"time":     h.Now().UTC(),
		"database": "ok",
	})
}
