package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-rota/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	lastRole domain.Role
}

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	f.lastRole = req.Role
	return req.Resource == "shift" && req.Action == "read", nil
}

func (f *fakeService) Permissions(role domain.Role) ([]Permission, error) {
	return []Permission{{Resource: "shift", Action: "read"}}, nil
}

type apiEnvelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := &fakeService{}
	handler := NewHandler(service)

	router := gin.New()
	router.POST("/rbac/enforce", func(c *gin.Context) {
		c.Set("role", "site_manager")
		c.Next()
	}, handler.Enforce)

	body, _ := json.Marshal(domain.EnforceRequest{Subject: "user-1", Resource: "shift", Action: "read"})
	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)

	var resp domain.EnforceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Allowed)
	assert.Equal(t, domain.RoleSiteManager, service.lastRole)
}

func TestHandler_Enforce_MissingResource(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/rbac/enforce", NewHandler(&fakeService{}).Enforce)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"subject":"u","action":"read"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
