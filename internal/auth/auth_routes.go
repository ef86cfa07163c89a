package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.AuthMiddleware(rdb), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/token", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(rdb), middleware.RateLimitByUser(2, 5), handler.Logout)
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
	}
}
