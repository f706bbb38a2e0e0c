package payroll

import (
	"go-rota/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	runs := r.Group("/payroll-runs")
	{
		runs.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), middleware.Idempotency(rdb), h.CreateRun)
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), h.GetAllRuns)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), h.GetRun)
		runs.POST("/:id/process", middleware.RBACAuthorize(rbacService, "payroll", "process"), middleware.Idempotency(rdb), h.ProcessRun)
		runs.POST("/:id/finalize", middleware.RBACAuthorize(rbacService, "payroll", "finalize"), middleware.Idempotency(rdb), h.FinalizeRun)
	}

	payslips := r.Group("/payslips")
	{
		payslips.GET("", middleware.RBACAuthorize(rbacService, "payslip", "read"), h.GetAllPayslips)
		payslips.GET("/:id", middleware.RBACAuthorize(rbacService, "payslip", "read"), h.GetPayslip)
		payslips.POST("/:id/deductions", middleware.RBACAuthorize(rbacService, "payslip", "deduct"), middleware.Idempotency(rdb), h.AddDeduction)
	}
}
