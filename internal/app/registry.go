package app

import (
	"database/sql"
	"net/http"

	"go-rota/internal/attendance"
	"go-rota/internal/config"
	"go-rota/internal/messaging/kafka"
	"go-rota/internal/middleware"
	"go-rota/internal/payroll"
	"go-rota/internal/rbac"
	"go-rota/internal/schedule"
	"go-rota/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	shiftRepo := schedule.NewRepository(gormDB)
	workerRepo := worker.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewDefaultService()
	if err != nil {
		return err
	}

	// --- Services ---
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, attendanceRepo, worker.NewRateReader(workerRepo), outboxRepo)
	shiftService := schedule.NewServiceWithOutbox(db, shiftRepo, outboxRepo)

	// --- Handlers ---
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)
	shiftHandler := schedule.NewHandlerWithRedis(shiftService, rdb)

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequestID(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS*2), cfg.RateLimitBurst*2),
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)
	{
		schedule.RegisterRoutes(api, shiftHandler, rbacService, rdb)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
