package query

import (
	"testing"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/pkg/rag/scope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, role string) *scope.ScopeSet {
	t.Helper()
	scopes, err := scope.Resolve(role)
	require.NoError(t, err)
	return scopes
}

func TestProcessRouting(t *testing.T) {
	manager := mustResolve(t, constant.RoleManager)

	tests := []struct {
		name      string
		question  string
		wantRoute string
	}{
		{
			name:      "plain document question",
			question:  "What does the expense reimbursement policy allow?",
			wantRoute: RouteSemantic,
		},
		{
			name:      "salary of a named person goes structured",
			question:  "What is the salary of Priya Sharma?",
			wantRoute: RouteStructured,
		},
		{
			name:      "salary aggregation goes structured",
			question:  "What is the average salary across the company?",
			wantRoute: RouteStructured,
		},
		{
			name:      "structured keyword without person or aggregation stays semantic",
			question:  "Tell me about salary reviews",
			wantRoute: RouteSemantic,
		},
		{
			name:      "document anchor overrides structured keywords",
			question:  "What does the handbook say about salary of Priya Sharma?",
			wantRoute: RouteSemantic,
		},
		{
			name:      "leave balance of a named person goes structured",
			question:  "How much leave balance does Rahul Verma have?",
			wantRoute: RouteStructured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Process(tt.question, manager)
			assert.Equal(t, tt.wantRoute, analysis.Route)
		})
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	manager := mustResolve(t, constant.RoleManager)
	question := "Compare the quarterly revenue against the marketing campaign budget"

	first := Process(question, manager)
	for i := 0; i < 5; i++ {
		again := Process(question, manager)
		assert.Equal(t, first, again)
	}
}

func TestScopeHintsNeverWidenAccess(t *testing.T) {
	question := "How did the quarterly revenue and budget look?"

	manager := Process(question, mustResolve(t, constant.RoleManager))
	assert.Contains(t, manager.ScopeHints, constant.ScopeFinance)

	// The same question from a plain employee must not hint at finance.
	employee := Process(question, mustResolve(t, constant.RoleEmployee))
	assert.NotContains(t, employee.ScopeHints, constant.ScopeFinance)

	marketing := Process(question, mustResolve(t, constant.RoleMarketing))
	assert.NotContains(t, marketing.ScopeHints, constant.ScopeFinance)
}

func TestExtractPersonName(t *testing.T) {
	manager := mustResolve(t, constant.RoleManager)

	tests := []struct {
		question string
		wantName string
	}{
		{"What is the salary of Priya Sharma?", "Priya Sharma"},
		{"Show attendance for Rahul Verma this year", "Rahul Verma"},
		{"What is the leave policy?", ""},
		{"How Many employees do we have?", ""},
		{"salary of priya sharma", ""}, // lowercase names never match
	}

	for _, tt := range tests {
		analysis := Process(tt.question, manager)
		assert.Equal(t, tt.wantName, analysis.PersonName, "question: %s", tt.question)
	}
}

func TestAggregationAndTemporal(t *testing.T) {
	manager := mustResolve(t, constant.RoleManager)

	analysis := Process("What was the total expense in Q3?", manager)
	assert.True(t, analysis.IsAggregation)
	assert.Equal(t, "quarterly", analysis.TemporalScope)

	analysis = Process("Annual engineering headcount planning", manager)
	assert.Equal(t, "annual", analysis.TemporalScope)

	analysis = Process("Where is the office?", manager)
	assert.False(t, analysis.IsAggregation)
	assert.Empty(t, analysis.TemporalScope)
}

func TestSanitizeStripsNoise(t *testing.T) {
	manager := mustResolve(t, constant.RoleManager)

	analysis := Process("What's   the <script>budget</script> plan?", manager)
	assert.NotContains(t, analysis.CleanQuery, "<")
	assert.NotContains(t, analysis.CleanQuery, ">")
	assert.NotContains(t, analysis.CleanQuery, "  ")
}

func TestSingleGivenNameRoutesStructured(t *testing.T) {
	hr := mustResolve(t, constant.RoleHR)

	analysis := Process("what is Priya's attendance in March?", hr)
	assert.Equal(t, RouteStructured, analysis.Route)
	assert.Equal(t, "Priya", analysis.PersonName)

	// The month capital is never mistaken for the person.
	analysis = Process("what is attendance in March?", hr)
	assert.Equal(t, RouteSemantic, analysis.Route)
	assert.Empty(t, analysis.PersonName)

	// Without a record keyword a lone name stays on the semantic path.
	analysis = Process("who is Priya?", hr)
	assert.Equal(t, RouteSemantic, analysis.Route)
	assert.Empty(t, analysis.PersonName)
}

func TestPossessiveCollapsesToBareName(t *testing.T) {
	hr := mustResolve(t, constant.RoleHR)

	analysis := Process("Priya Sharma's leave balance", hr)
	assert.Equal(t, RouteStructured, analysis.Route)
	assert.Equal(t, "Priya Sharma", analysis.PersonName)
}
