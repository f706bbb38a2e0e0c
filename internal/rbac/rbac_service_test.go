package rbac

import (
	"testing"

	"go-rota/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRBACService_Enforce(t *testing.T) {
	service, err := NewDefaultService()
	assert.NoError(t, err)

	tests := []struct {
		name     string
		role     domain.Role
		resource string
		action   string
		allowed  bool
	}{
		{"admin finalizes payroll", domain.RoleAdmin, "payroll", "finalize", true},
		{"site manager deducts", domain.RoleSiteManager, "payslip", "deduct", true},
		{"site manager cannot process payroll", domain.RoleSiteManager, "payroll", "process", false},
		{"worker creates shift", domain.RoleWorker, "shift", "create", true},
		{"worker cannot delete shift", domain.RoleWorker, "shift", "delete", false},
		{"worker cannot read payroll runs", domain.RoleWorker, "payroll", "read", false},
		{"unknown role denied", domain.RoleUnknown, "shift", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := service.Enforce(domain.EnforceRequest{
				Subject:  "user-1",
				Role:     tt.role,
				Resource: tt.resource,
				Action:   tt.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestRBACService_Permissions(t *testing.T) {
	service, err := NewDefaultService()
	assert.NoError(t, err)

	perms, err := service.Permissions(domain.RoleWorker)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []Permission{
		{Resource: "shift", Action: "read"},
		{Resource: "shift", Action: "create"},
		{Resource: "shift", Action: "validate"},
		{Resource: "payslip", Action: "read"},
	}, perms)
}
