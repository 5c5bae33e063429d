package planner

import (
	"context"
	"errors"
	"log"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/rag/query"
	"ai-helpdesk-be/pkg/rag/scope"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/structured"

	"github.com/google/uuid"
)

// Evidence is one grounding item handed to generation. Content is the chunk
// text (or formatted record); the rest identifies the source for citations.
type Evidence struct {
	SourceId   uuid.UUID
	SourceType string // "document" or "record"
	Title      string
	Scope      string
	Content    string
	Similarity float64
}

// Plan is the retrieval outcome for one question. Exactly one of two shapes:
// a PreparedAnswer that must be streamed verbatim (structured answers,
// refusals, misses), or an Evidence list for grounded generation. An empty
// plan (no answer, no evidence) means insufficient information.
type Plan struct {
	Route          string
	Evidence       []Evidence
	PreparedAnswer string
}

// Planner routes a processed query to the right retrieval path and
// assembles the evidence set.
type Planner struct {
	searcher  *search.Orchestrator
	adapter   *structured.Adapter
	searchCfg search.Config
	logger    *log.Logger
}

func NewPlanner(searcher *search.Orchestrator, adapter *structured.Adapter, searchCfg search.Config, logger *log.Logger) *Planner {
	return &Planner{
		searcher:  searcher,
		adapter:   adapter,
		searchCfg: searchCfg,
		logger:    logger,
	}
}

// Build executes the retrieval plan. Retrieval failures (index down) are
// returned as errors; empty results are not errors, they are empty plans.
func (p *Planner) Build(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scopes *scope.ScopeSet,
	analysis *query.Analysis,
) (*Plan, error) {

	if analysis.Route == query.RouteStructured {
		return p.buildStructured(ctx, scopes, analysis)
	}
	return p.buildSemantic(ctx, uow, scopes, analysis)
}

func (p *Planner) buildStructured(ctx context.Context, scopes *scope.ScopeSet, analysis *query.Analysis) (*Plan, error) {
	result, err := p.adapter.Lookup(ctx, scopes, analysis)
	if err != nil {
		if dto.IsScopeDenied(err) {
			p.logger.Printf("[PLAN] Structured lookup denied: %v", err)
			return &Plan{
				Route:          query.RouteStructured,
				PreparedAnswer: constant.ScopeDeniedAnswer,
			}, nil
		}
		if errors.Is(err, dto.ErrRecordNotFound) {
			return &Plan{
				Route:          query.RouteStructured,
				PreparedAnswer: constant.RecordNotFoundAnswer,
			}, nil
		}
		return nil, err
	}

	plan := &Plan{
		Route:          query.RouteStructured,
		PreparedAnswer: result.Answer,
	}
	for _, record := range result.Records {
		plan.Evidence = append(plan.Evidence, Evidence{
			SourceId:   record.Id,
			SourceType: "record",
			Title:      record.RecordKey,
			Scope:      record.Scope,
		})
	}
	return plan, nil
}

// buildSemantic runs vector search, then keeps at most one chunk per source
// document (the highest-ranked one; results arrive ordered) up to the
// evidence cap.
func (p *Planner) buildSemantic(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scopes *scope.ScopeSet,
	analysis *query.Analysis,
) (*Plan, error) {

	results, err := p.searcher.Execute(ctx, uow, scopes, analysis.CleanQuery, p.searchCfg)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Route: query.RouteSemantic}
	seen := make(map[uuid.UUID]bool)

	for _, res := range results {
		if seen[res.DocumentId] {
			continue
		}
		seen[res.DocumentId] = true

		plan.Evidence = append(plan.Evidence, Evidence{
			SourceId:   res.DocumentId,
			SourceType: "document",
			Title:      res.DocumentTitle,
			Scope:      res.Scope,
			Content:    res.Chunk,
			Similarity: res.Similarity,
		})

		if len(plan.Evidence) >= constant.EvidenceLimit {
			break
		}
	}

	p.logger.Printf("[PLAN] Semantic evidence: %d documents (from %d chunks)", len(plan.Evidence), len(results))
	return plan, nil
}
