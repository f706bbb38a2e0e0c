package rbac

import "go-rota/internal/domain"

// Requests are (role, resource, action). keyMatch lets admin hold "*".
const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicies is the fixed permission table for the three roles.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin.String(), "*", "*"},

	{domain.RoleSiteManager.String(), "shift", "read"},
	{domain.RoleSiteManager.String(), "shift", "create"},
	{domain.RoleSiteManager.String(), "shift", "delete"},
	{domain.RoleSiteManager.String(), "shift", "validate"},
	{domain.RoleSiteManager.String(), "payroll", "read"},
	{domain.RoleSiteManager.String(), "payslip", "read"},
	{domain.RoleSiteManager.String(), "payslip", "deduct"},

	{domain.RoleWorker.String(), "shift", "read"},
	{domain.RoleWorker.String(), "shift", "create"},
	{domain.RoleWorker.String(), "shift", "validate"},
	{domain.RoleWorker.String(), "payslip", "read"},
}
