package scope

import (
	"sort"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
)

// rolePermissions maps every known role tag to the scopes it may read.
// Department roles see their own partition plus general; managers see
// everything; plain employees see only general. The table is fixed at
// startup and never mutated.
var rolePermissions = map[string][]string{
	constant.RoleFinance:     {constant.ScopeFinance, constant.ScopeGeneral},
	constant.RoleMarketing:   {constant.ScopeMarketing, constant.ScopeGeneral},
	constant.RoleHR:          {constant.ScopeHR, constant.ScopeGeneral},
	constant.RoleEngineering: {constant.ScopeEngineering, constant.ScopeGeneral},
	constant.RoleManager: {
		constant.ScopeFinance,
		constant.ScopeMarketing,
		constant.ScopeHR,
		constant.ScopeEngineering,
		constant.ScopeGeneral,
	},
	constant.RoleEmployee: {constant.ScopeGeneral},
}

// ScopeSet is a resolved set of scope names for one role.
type ScopeSet struct {
	scopes map[string]struct{}
}

// Resolve maps a role tag to its ScopeSet. Unknown roles are rejected, never
// defaulted: a typo in a role claim must not widen access.
func Resolve(role string) (*ScopeSet, error) {
	allowed, ok := rolePermissions[role]
	if !ok {
		return nil, dto.ErrUnknownRole
	}

	scopes := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		scopes[s] = struct{}{}
	}
	return &ScopeSet{scopes: scopes}, nil
}

// Contains reports whether a scope is readable under this set.
func (s *ScopeSet) Contains(scope string) bool {
	_, ok := s.scopes[scope]
	return ok
}

// List returns the scopes sorted, for stable SQL and logging.
func (s *ScopeSet) List() []string {
	out := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		out = append(out, scope)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of scopes in the set.
func (s *ScopeSet) Len() int {
	return len(s.scopes)
}

// KnownRoles lists the role tags the resolver accepts, sorted.
func KnownRoles() []string {
	roles := make([]string, 0, len(rolePermissions))
	for role := range rolePermissions {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
