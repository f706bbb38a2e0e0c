package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-rota/internal/shared/contextutil"
	"go-rota/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the stored result of a POST carrying an
// Idempotency-Key, and rejects a duplicate that arrives while the first is
// still running. Handlers record their result with CacheIdempotentResponse.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replay", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			contextutil.GetLogger(ctx, zap.L()).Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "a request with this idempotency key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		defer rdb.Del(ctx, lockKey)

		c.Next()
	}
}

// CacheIdempotentResponse stores a successful result for replay. It is a
// no-op when the request carried no Idempotency-Key.
func CacheIdempotentResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	cacheKey := c.GetString("idempotency_cache_key")
	if rdb == nil || cacheKey == "" {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(cachedResponse{Status: status, Data: body})
	if err != nil {
		return
	}
	if err := rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyCacheTTL).Err(); err != nil {
		contextutil.GetLogger(c.Request.Context(), zap.L()).Warn("idempotency cache write failed", zap.Error(err))
	}
}
