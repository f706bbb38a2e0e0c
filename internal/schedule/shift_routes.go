package schedule

import (
	"go-rota/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	shifts := r.Group("/shifts")
	{
		shifts.POST("/validate", middleware.RBACAuthorize(rbacService, "shift", "validate"), h.Validate)
		shifts.POST("", middleware.RBACAuthorize(rbacService, "shift", "create"), middleware.Idempotency(rdb), h.Create)
		shifts.GET("", middleware.RBACAuthorize(rbacService, "shift", "read"), h.GetAll)
		shifts.GET("/:id", middleware.RBACAuthorize(rbacService, "shift", "read"), h.GetByID)
		shifts.DELETE("/:id", middleware.RBACAuthorize(rbacService, "shift", "delete"), h.Delete)
	}
}
