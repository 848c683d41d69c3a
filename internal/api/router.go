package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wfunc/region-war/internal/config"
	"github.com/wfunc/region-war/internal/database"
	"github.com/wfunc/region-war/internal/middleware"
	"github.com/wfunc/region-war/internal/repository"
	"github.com/wfunc/region-war/internal/utils"
)

// Router API路由器
type Router struct {
	engine             *gin.Engine
	db                 *gorm.DB
	kvHandler          *KVHandler
	authHandler        *AuthHandler
	maintenanceHandler *MaintenanceHandler
	authMiddleware     *middleware.AuthMiddleware
	log                *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Router {
	// 创建Gin引擎
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 创建仓储与处理器
	kvRepo := repository.NewKVRepository(db)
	jwtManager := utils.NewJWTManager(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.ExpireHours)*time.Hour,
	)

	router := &Router{
		engine:             engine,
		db:                 db,
		kvHandler:          NewKVHandler(kvRepo, log),
		authHandler:        NewAuthHandler(jwtManager, log),
		maintenanceHandler: NewMaintenanceHandler(kvRepo, cfg.Game.RecordTTL, log),
		authMiddleware:     middleware.NewAuthMiddleware(jwtManager, cfg.Security.JWT.Enabled),
		log:                log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/token", r.authHandler.IssueToken)
		}

		// 键值读写路由
		kv := v1.Group("/kv")
		kv.Use(r.authMiddleware.RequireAuth())
		{
			kv.GET("", r.kvHandler.List)
			kv.GET("/:key", r.kvHandler.Get)
			kv.PUT("/:key", r.kvHandler.Put)
			kv.DELETE("/:key", r.kvHandler.Delete)
		}

		// 维护路由（要求 admin 角色）
		maintenance := v1.Group("/maintenance")
		maintenance.Use(r.authMiddleware.RequireRole("admin"))
		{
			maintenance.POST("/sweep", r.maintenanceHandler.Sweep)
		}
	}
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	respondOK(c, gin.H{
		"status":   "ok",
		"database": database.IsConnected(),
		"time":     time.Now().UnixMilli(),
	})
}

// Engine 返回底层Gin引擎
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
