package scope

import (
	"testing"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantScopes []string
	}{
		{
			name:       "finance sees own department plus general",
			role:       constant.RoleFinance,
			wantScopes: []string{constant.ScopeFinance, constant.ScopeGeneral},
		},
		{
			name:       "marketing sees own department plus general",
			role:       constant.RoleMarketing,
			wantScopes: []string{constant.ScopeGeneral, constant.ScopeMarketing},
		},
		{
			name:       "hr sees own department plus general",
			role:       constant.RoleHR,
			wantScopes: []string{constant.ScopeGeneral, constant.ScopeHR},
		},
		{
			name:       "engineering sees own department plus general",
			role:       constant.RoleEngineering,
			wantScopes: []string{constant.ScopeEngineering, constant.ScopeGeneral},
		},
		{
			name: "manager sees everything",
			role: constant.RoleManager,
			wantScopes: []string{
				constant.ScopeEngineering, constant.ScopeFinance,
				constant.ScopeGeneral, constant.ScopeHR, constant.ScopeMarketing,
			},
		},
		{
			name:       "plain employee sees only general",
			role:       constant.RoleEmployee,
			wantScopes: []string{constant.ScopeGeneral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scopes, err := Resolve(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScopes, scopes.List())
		})
	}
}

func TestResolveUnknownRole(t *testing.T) {
	for _, role := range []string{"", "admin", "Finance", "superuser"} {
		scopes, err := Resolve(role)
		assert.ErrorIs(t, err, dto.ErrUnknownRole, "role %q must be rejected", role)
		assert.Nil(t, scopes)
	}
}

func TestScopeSetContains(t *testing.T) {
	scopes, err := Resolve(constant.RoleFinance)
	require.NoError(t, err)

	assert.True(t, scopes.Contains(constant.ScopeFinance))
	assert.True(t, scopes.Contains(constant.ScopeGeneral))
	assert.False(t, scopes.Contains(constant.ScopeHR))
	assert.Equal(t, 2, scopes.Len())
}

func TestManagerIsSupersetOfEveryRole(t *testing.T) {
	manager, err := Resolve(constant.RoleManager)
	require.NoError(t, err)

	for _, role := range KnownRoles() {
		scopes, err := Resolve(role)
		require.NoError(t, err)
		for _, s := range scopes.List() {
			assert.True(t, manager.Contains(s), "manager must see scope %q of role %q", s, role)
		}
	}
}
