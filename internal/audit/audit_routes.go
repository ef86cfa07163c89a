package audit

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Hanya HR yang punya policy audit:read, lihat internal/rbac.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	entries := r.Group("/audit-log")
	entries.Use(middleware.AuthMiddleware(rdb))
	{
		entries.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), h.GetAll)
		entries.GET("/:id", middleware.RBACAuthorize(rbacService, "audit", "read"), h.GetById)
	}
}
