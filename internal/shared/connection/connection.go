package connection

import (
	"context"
	"fmt"
	"time"

	"go-rota/internal/config"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var retryDelay = 5 * time.Second

// withRetry calls dial until it succeeds or attempts run out.
func withRetry(log *zap.Logger, target string, attempts int, dial func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if lastErr = dial(); lastErr == nil {
			return nil
		}
		log.Warn("dial failed",
			zap.String("target", target),
			zap.Int("attempt", i),
			zap.Int("max", attempts),
			zap.Error(lastErr),
		)
		if i < attempts {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", target, attempts, lastErr)
}

func PostgresDSN(c config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// ConnectGORMWithRetry opens the pool and pings it. Shift validation holds
// advisory locks per transaction, so the pool is sized above the request
// concurrency the rate limiter allows.
func ConnectGORMWithRetry(c config.DatabaseConfig, attempts int) (*gorm.DB, error) {
	log := zap.L().Named("connection.postgres")

	var db *gorm.DB
	err := withRetry(log, "postgres", attempts, func() error {
		gdb, err := gorm.Open(postgres.Open(PostgresDSN(c)), &gorm.Config{})
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return err
		}

		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
		db = gdb
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("connected", zap.String("host", c.Host), zap.String("database", c.Name))
	return db, nil
}

func ConnectRedisWithRetry(addr string, attempts int) (*redis.Client, error) {
	log := zap.L().Named("connection.redis")
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	err := withRetry(log, "redis", attempts, func() error {
		return rdb.Ping(context.Background()).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("connected", zap.String("addr", addr))
	return rdb, nil
}

// ConnectKafkaWithRetry dials the broker until it answers, then returns a
// topic-less writer; the topic is set per message by the outbox producer.
func ConnectKafkaWithRetry(broker string, attempts int) (*kafkago.Writer, error) {
	log := zap.L().Named("connection.kafka")

	err := withRetry(log, "kafka", attempts, func() error {
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		return nil, err
	}

	log.Info("connected", zap.String("broker", broker))
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}, nil
}
