package router

import (
	"time"

	"clarifi/internal/config"
	"clarifi/internal/handler"
	"clarifi/internal/logger"
	"clarifi/internal/middleware"
	"clarifi/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin：中间件链、公开的健康检查和需要登录的 API
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *service.TransactionService, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger.Component(log, "http")),
		gin.Recovery(),
		middleware.ErrorHandler(),
	)

	// 只允许配置的前端来源
	if cfg.CORS.AllowedOrigin != "" {
		allowHeaders := []string{"Authorization", "Content-Type", middleware.HeaderRequestID}
		if cfg.Auth.DevBypassHeader != "" && !cfg.IsProduction() {
			allowHeaders = append(allowHeaders, cfg.Auth.DevBypassHeader)
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{cfg.CORS.AllowedOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"Content-Disposition", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 健康检查（不需要鉴权）
	health := handler.NewHealthHandler(db)
	r.GET("/health", health.Health)

	// 需要登录才能访问的接口
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.Auth, cfg.IsProduction()))

	protected.GET("/me", handler.GetMe)

	txHandler := handler.NewTransactionHandler(svc, cfg.Location())
	exportHandler := handler.NewExportHandler(svc)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.DELETE("/transactions", txHandler.DeleteAll)
	protected.POST("/transactions/seed", txHandler.Seed)
	protected.GET("/transactions/export", exportHandler.Export)
	protected.GET("/transactions/:id", txHandler.Get)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	dashHandler := handler.NewDashboardHandler(svc, cfg.Location(), logger.Component(log, "dashboard"))
	protected.GET("/dashboard/transactions", dashHandler.Transactions)
	protected.GET("/dashboard/overview", dashHandler.Overview)
	protected.GET("/dashboard/spending", dashHandler.Spending)

	return r
}
