package response

import (
	"context"
	"errors"
	"log"
	"strings"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/llm/ollama"
	"ai-helpdesk-be/pkg/rag/planner"
	"ai-helpdesk-be/pkg/rag/prompt"
)

// Fragment is one unit of the streamed answer. Token fragments carry Text;
// the terminal fragment is either Done with the citations actually used, or
// Error. After a terminal fragment no further fragments are emitted.
type Fragment struct {
	Type      string
	Text      string
	Citations []planner.Evidence
	Err       error
}

// OnFragment receives fragments in order. Returning an error aborts the
// stream (typically: the client went away).
type OnFragment func(Fragment) error

// Generator turns a retrieval plan into a streamed, grounded answer.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate streams the answer for a plan and returns the full text plus the
// citations used. Prepared answers and the empty-evidence case are emitted
// without touching the LLM: the fixed insufficient-information reply is a
// correct outcome, not a failure.
func (g *Generator) Generate(
	ctx context.Context,
	plan *planner.Plan,
	queryText string,
	history []llm.Message,
	onFragment OnFragment,
) (string, []planner.Evidence, error) {

	if plan.PreparedAnswer != "" {
		return g.emitFixed(plan.PreparedAnswer, plan.Evidence, onFragment)
	}

	if len(plan.Evidence) == 0 {
		g.logger.Printf("[GENERATION] No in-scope evidence; returning fixed answer")
		return g.emitFixed(constant.InsufficientInformationAnswer, nil, onFragment)
	}

	promptText := prompt.NewGroundedBuilder(queryText, plan.Evidence).Build()
	fullHistory := append(history, llm.Message{Role: "user", Content: promptText})

	// Every return path cancels the backend stream, so an abandoned receiver
	// cannot strand the producer or its connection.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deltas, err := g.llmProvider.ChatStream(ctx, fullHistory)
	if err != nil {
		mapped := mapBackendError(err)
		_ = onFragment(Fragment{Type: constant.StreamEventError, Err: mapped})
		return "", nil, mapped
	}

	var answer strings.Builder
	for delta := range deltas {
		if delta.Err != nil {
			mapped := mapBackendError(delta.Err)
			g.logger.Printf("[ERROR] Generation stream failed: %v", delta.Err)
			_ = onFragment(Fragment{Type: constant.StreamEventError, Err: mapped})
			return "", nil, mapped
		}

		if delta.Done {
			break
		}

		answer.WriteString(delta.Content)
		if err := onFragment(Fragment{Type: constant.StreamEventToken, Text: delta.Content}); err != nil {
			// Receiver gone; stop generating.
			return "", nil, err
		}
	}

	if err := onFragment(Fragment{Type: constant.StreamEventDone, Citations: plan.Evidence}); err != nil {
		return "", nil, err
	}

	g.logger.Printf("[GENERATION] Answer generated from %d evidence items", len(plan.Evidence))
	return answer.String(), plan.Evidence, nil
}

// emitFixed streams a predetermined answer as one token plus done.
func (g *Generator) emitFixed(answer string, citations []planner.Evidence, onFragment OnFragment) (string, []planner.Evidence, error) {
	if err := onFragment(Fragment{Type: constant.StreamEventToken, Text: answer}); err != nil {
		return "", nil, err
	}
	if err := onFragment(Fragment{Type: constant.StreamEventDone, Citations: citations}); err != nil {
		return "", nil, err
	}
	return answer, citations, nil
}

func mapBackendError(err error) error {
	switch {
	case errors.Is(err, ollama.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return dto.ErrBackendTimeout
	case errors.Is(err, context.Canceled):
		return err
	default:
		return dto.ErrBackendUnavailable
	}
}
