package prompt

import (
	"fmt"
	"strings"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/pkg/rag/planner"
)

// GroundedBuilder assembles the generation prompt from evidence. The model
// only ever sees material that already passed the scope filter.
type GroundedBuilder struct {
	query    string
	evidence []planner.Evidence
}

func NewGroundedBuilder(query string, evidence []planner.Evidence) *GroundedBuilder {
	return &GroundedBuilder{
		query:    query,
		evidence: evidence,
	}
}

// Build creates the grounded prompt: reference material, task instructions,
// then the question.
func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeInstructions(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString("This is the ONLY data source. Do NOT use outside knowledge.\n")
	prompt.WriteString("Each source is separated by headers; treat them as distinct documents.\n\n")

	for _, ev := range b.evidence {
		fmt.Fprintf(prompt, "\n--- SOURCE: %s ---\n", ev.Title)
		prompt.WriteString(ev.Content)
		fmt.Fprintf(prompt, "\n--- END OF: %s ---\n", ev.Title)
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *GroundedBuilder) writeInstructions(prompt *strings.Builder) {
	prompt.WriteString("<task_instructions>\n")
	prompt.WriteString(constant.GroundedSystemPrompt)
	prompt.WriteString("\n\nRULES:\n")
	prompt.WriteString("1. Answer ONLY using the text in <reference_material>.\n")
	prompt.WriteString("2. Cite sources by name, e.g. \"According to the Employee Handbook...\".\n")
	prompt.WriteString("3. If the material does not contain the answer, say so honestly.\n")
	prompt.WriteString("4. Show your work for any calculations and give a final answer.\n")
	prompt.WriteString("</task_instructions>\n\n")
}

func (b *GroundedBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")
}
