package prompt

import (
	"strings"
	"testing"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/pkg/rag/planner"

	"github.com/stretchr/testify/assert"
)

func TestGroundedBuilderStructure(t *testing.T) {
	evidence := []planner.Evidence{
		{Title: "Employee Handbook", Content: "Working hours are 9 to 6."},
		{Title: "On-Call Runbook", Content: "Escalate after 15 minutes."},
	}

	out := NewGroundedBuilder("What are the working hours?", evidence).Build()

	assert.Contains(t, out, "<reference_material>")
	assert.Contains(t, out, "--- SOURCE: Employee Handbook ---")
	assert.Contains(t, out, "Working hours are 9 to 6.")
	assert.Contains(t, out, "--- END OF: On-Call Runbook ---")
	assert.Contains(t, out, constant.GroundedSystemPrompt)
	assert.Contains(t, out, "<user_question>\nWhat are the working hours?")

	// Material comes first, instructions second, question last.
	assert.Less(t, strings.Index(out, "<reference_material>"), strings.Index(out, "<task_instructions>"))
	assert.Less(t, strings.Index(out, "<task_instructions>"), strings.Index(out, "<user_question>"))
}

func TestGroundedBuilderKeepsEvidenceOrder(t *testing.T) {
	evidence := []planner.Evidence{
		{Title: "First", Content: "a"},
		{Title: "Second", Content: "b"},
		{Title: "Third", Content: "c"},
	}

	out := NewGroundedBuilder("q", evidence).Build()

	assert.Less(t, strings.Index(out, "SOURCE: First"), strings.Index(out, "SOURCE: Second"))
	assert.Less(t, strings.Index(out, "SOURCE: Second"), strings.Index(out, "SOURCE: Third"))
}
