package app

import (
	"database/sql"

	"go-leave/internal/audit"
	"go-leave/internal/auth"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo, rdb)
	userService := user.NewService(userRepo)
	leaveService := leave.NewService(db, leaveRepo, auditRepo, outboxRepo)
	auditService := audit.NewService(auditRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	auditHandler := audit.NewHandler(auditService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rdb)
		user.RegisterRoutes(api, userHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		audit.RegisterRoutes(api, auditHandler, rbacService, rdb)
	}

	return nil
}
