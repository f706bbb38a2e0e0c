package rbac

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the self-service permission endpoints. Callers pass
// a group that already runs the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/permissions", handler.Permissions)
	}
}
