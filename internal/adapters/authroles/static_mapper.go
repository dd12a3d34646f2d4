package authroles

import (
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules.
// Super admin membership wins over admin membership when both are present.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		switch {
		case m.SuperAdminGroup != "" && g == m.SuperAdminGroup:
			return domainauth.RoleSuperAdmin
		case m.AdminGroup != "" && g == m.AdminGroup:
			role = domainauth.RoleAdmin
		}
	}
	return role
}
