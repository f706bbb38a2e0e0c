package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-rota/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/test", handlers...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	var actor domain.Actor
	r := newRouter(AuthMiddleware(testSecret), func(c *gin.Context) {
		actor, _ = ActorFromContext(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
			"user_id": "user-1",
			"role":    "Site_Manager",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}))

		w := serve(r, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.Actor{ID: "user-1", Role: domain.RoleSiteManager}, actor)
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
			"user_id": "user-1",
			"role":    "admin",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}))

		w := serve(r, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})

	t.Run("unknown role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"user_id": "user-1", "role": "owner"}))

		w := serve(r, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

type fakeRBAC struct {
	allowed bool
	err     error
}

func (f fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allowed, f.err
}

func withActor(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("role", role)
		c.Next()
	}
}

func TestRBACAuthorize(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		name   string
		chain  []gin.HandlerFunc
		status int
	}{
		{"allowed", []gin.HandlerFunc{withActor("u", "admin"), RBACAuthorize(fakeRBAC{allowed: true}, "payroll", "read"), ok}, http.StatusNoContent},
		{"denied", []gin.HandlerFunc{withActor("u", "worker"), RBACAuthorize(fakeRBAC{}, "payroll", "read"), ok}, http.StatusForbidden},
		{"no actor", []gin.HandlerFunc{RBACAuthorize(fakeRBAC{allowed: true}, "payroll", "read"), ok}, http.StatusUnauthorized},
		{"enforcer error", []gin.HandlerFunc{withActor("u", "admin"), RBACAuthorize(fakeRBAC{err: errors.New("boom")}, "payroll", "read"), ok}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(tt.chain...), httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimitByUser(t *testing.T) {
	r := newRouter(withActor("u-1", "worker"), RateLimitByUser(rate.Limit(0.001), 1), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	w := serve(r, req)

	assert.Equal(t, "rid-1", w.Body.String())
	assert.Equal(t, "rid-1", w.Header().Get(RequestIDHeader))
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	cacheKey := "idemp:/test:u-1:key-1"
	mock.ExpectGet(cacheKey).SetVal(`{"status":201,"data":{"id":"shift-1"}}`)

	called := false
	r := newRouter(withActor("u-1", "admin"), Idempotency(rdb), func(c *gin.Context) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyHeader, "key-1")
	w := serve(r, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replay"))

	var env struct {
		Ok   bool              `json:"ok"`
		Data map[string]string `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "shift-1", env.Data["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RejectsConcurrentDuplicate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	cacheKey := "idemp:/test:u-1:key-1"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(false)

	r := newRouter(withActor("u-1", "admin"), Idempotency(rdb), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyHeader, "key-1")
	w := serve(r, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_CachesFirstResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	cacheKey := "idemp:/test:u-1:key-1"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(cacheKey, []byte(`{"status":201,"data":{"id":"shift-1"}}`), idempotencyCacheTTL).SetVal("OK")
	mock.ExpectDel(cacheKey + ":lock").SetVal(1)

	r := newRouter(withActor("u-1", "admin"), Idempotency(rdb), func(c *gin.Context) {
		data := map[string]string{"id": "shift-1"}
		CacheIdempotentResponse(c, rdb, http.StatusCreated, data)
		c.JSON(http.StatusCreated, data)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyHeader, "key-1")
	w := serve(r, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
