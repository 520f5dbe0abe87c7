package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/core/domain"
)

func Test_ResolveCapabilities(t *testing.T) {
	tests := []struct {
		name  string
		roles []domain.Role
		want  domain.Capabilities
	}{
		{
			name:  "admin_is_staff_and_administrator",
			roles: []domain.Role{domain.RoleAdmin},
			want:  domain.Capabilities{CanManageCatalog: true, CanAdminister: true, SelfServeOnly: false},
		},
		{
			name:  "librarian_is_staff_but_not_administrator",
			roles: []domain.Role{domain.RoleLibrarian},
			want:  domain.Capabilities{CanManageCatalog: true, CanAdminister: false, SelfServeOnly: false},
		},
		{
			name:  "member_is_self_serve_only",
			roles: []domain.Role{domain.RoleMember},
			want:  domain.Capabilities{CanManageCatalog: false, CanAdminister: false, SelfServeOnly: true},
		},
		{
			name:  "member_plus_librarian_is_staff",
			roles: []domain.Role{domain.RoleMember, domain.RoleLibrarian},
			want:  domain.Capabilities{CanManageCatalog: true, CanAdminister: false, SelfServeOnly: false},
		},
		{
			name:  "no_roles_is_self_serve_only",
			roles: nil,
			want:  domain.Capabilities{CanManageCatalog: false, CanAdminister: false, SelfServeOnly: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ResolveCapabilities(tt.roles))
		})
	}
}

func Test_Caller(t *testing.T) {
	assert.False(t, domain.Anonymous.IsAuthenticated())
	assert.False(t, domain.Anonymous.IsStaff())

	staff := domain.Caller{UserID: 7, Capabilities: domain.ResolveCapabilities([]domain.Role{domain.RoleLibrarian})}
	assert.True(t, staff.IsAuthenticated())
	assert.True(t, staff.IsStaff())

	member := domain.Caller{UserID: 9, Capabilities: domain.ResolveCapabilities([]domain.Role{domain.RoleMember})}
	assert.True(t, member.IsAuthenticated())
	assert.False(t, member.IsStaff())
}
