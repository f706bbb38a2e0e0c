package app

import (
	"database/sql"

	"go-rota/internal/config"
	"go-rota/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects infrastructure and registers every module on router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	log := zap.L().Named("app")

	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	log.Info("database connection established")

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			return err
		}
		log.Info("redis connection established")
	} else {
		log.Warn("REDIS_ADDR not set, idempotency keys are ignored")
	}

	return registerModules(router, cfg, sqlDB, gormDB, rdb)
}

func connectDatabase(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}
