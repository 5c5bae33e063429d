package structured

import (
	"context"
	"strings"
	"testing"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/pkg/rag/query"
	"ai-helpdesk-be/pkg/rag/scope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDeniedBeforeStorage(t *testing.T) {
	// A nil factory proves the denial happens before any storage access:
	// touching the factory would panic.
	adapter := NewAdapter(nil)

	for _, role := range []string{constant.RoleFinance, constant.RoleMarketing, constant.RoleEngineering, constant.RoleEmployee} {
		scopes, err := scope.Resolve(role)
		require.NoError(t, err)

		analysis := query.Process("What is the salary of Priya Sharma?", scopes)
		result, err := adapter.Lookup(context.Background(), scopes, analysis)

		assert.Nil(t, result)
		assert.True(t, dto.IsScopeDenied(err), "role %q must be denied", role)
	}
}

func TestNormalizeRecordKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Priya Sharma", "priya sharma"},
		{"  Priya   Sharma  ", "priya sharma"},
		{"PRIYA SHARMA", "priya sharma"},
		{"priya sharma", "priya sharma"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRecordKey(tt.in))
	}
}

func TestRequestedField(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what is the salary of priya", "salary"},
		{"compensation for the team", "salary"},
		{"leave balance of rahul", "leave_balance"},
		{"how many leaves taken this year", "leaves_taken"},
		{"attendance for priya", "attendance_pct"},
		{"performance rating of rahul", "performance_rating"},
		{"who is priya", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, requestedField(tt.query), "query: %s", tt.query)
	}
}

func TestFormatRecordSortsFields(t *testing.T) {
	record := &entity.EmployeeRecord{
		RecordKey: "priya sharma",
		Scope:     constant.ScopeHR,
		Fields: map[string]interface{}{
			"salary":        95000.0,
			"leave_balance": 10.0,
		},
	}

	out := formatRecord("Priya Sharma", record)
	assert.Contains(t, out, "Record for **Priya Sharma**")
	assert.Contains(t, out, "- Leave balance: 10")
	assert.Contains(t, out, "- Salary: 95000")
	// Fields are emitted in sorted key order for stable output.
	assert.Less(t, strings.Index(out, "Leave balance"), strings.Index(out, "Salary"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "95000", formatNumber(95000.0))
	assert.Equal(t, "4.50", formatNumber(4.5))
	assert.Equal(t, "96.25", formatNumber(96.25))
}
