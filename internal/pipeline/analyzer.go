// Package pipeline orchestrates the query and ingestion flows: request
// validation, tool routing, bounded retries, and typed failures.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/finsight/internal/analysis"
	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/retrieve"
	"github.com/dgallion1/finsight/internal/segment"
)

// State is a stage of the per-request analysis pipeline.
type State string

const (
	StateReceived   State = "received"
	StateClassified State = "classified"
	StateRetrieving State = "retrieving"
	StateAnalyzing  State = "analyzing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Default retrieval queries per analysis type. QA uses the caller's
// question instead.
const (
	queryFinancialPerformance = "financial performance"
	queryRiskFactors          = "risk factors disclosure"
)

// Analyzer runs one request through the
// Received -> Classified -> Retrieving -> Analyzing -> Completed
// pipeline. Failed(reason) is reachable from every state as a typed
// error. Each request is processed by one sequential invocation;
// independent requests may run concurrently against the shared index.
type Analyzer struct {
	retriever *retrieve.Retriever
	tools     map[analysis.Type]analysis.Tool
	topK      int
	log       *slog.Logger
}

func NewAnalyzer(retriever *retrieve.Retriever, tools map[analysis.Type]analysis.Tool, topK int, log *slog.Logger) *Analyzer {
	if topK <= 0 {
		topK = 10
	}
	return &Analyzer{
		retriever: retriever,
		tools:     tools,
		topK:      topK,
		log:       log,
	}
}

// Run executes the full pipeline for one request and returns the
// analysis result or a typed failure. No partial result is ever
// returned.
func (a *Analyzer) Run(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	log := a.log.With("analysis_type", req.Type)
	log.Info("pipeline state", "state", StateReceived)

	// Received -> Classified: shape validation, before any retrieval.
	// The type is normalized so routing is case-insensitive.
	typ, err := analysis.ParseType(string(req.Type))
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		log.Warn("pipeline state", "state", StateFailed, "reason", err)
		return nil, err
	}
	req.Type = typ
	if err := validate(req); err != nil {
		log.Warn("pipeline state", "state", StateFailed, "reason", err)
		return nil, err
	}
	tool, ok := a.tools[req.Type]
	if !ok {
		err := fmt.Errorf("%w: no tool bound for type %q", ErrInvalidRequest, req.Type)
		log.Warn("pipeline state", "state", StateFailed, "reason", err)
		return nil, err
	}
	log.Info("pipeline state", "state", StateClassified)

	// Classified -> Retrieving.
	log.Info("pipeline state", "state", StateRetrieving)
	matches, err := withRetry(ctx, func() ([]index.Match, error) {
		return a.retrieveFor(ctx, req)
	})
	if err != nil {
		log.Error("pipeline state", "state", StateFailed, "reason", err)
		return nil, err
	}
	// An empty retrieval is not a failure; the tool decides what to do
	// with no context.
	log.Info("retrieval complete", "matches", len(matches))

	// Retrieving -> Analyzing.
	log.Info("pipeline state", "state", StateAnalyzing)
	result, err := withRetry(ctx, func() (*analysis.Result, error) {
		return tool.Analyze(ctx, matches, req)
	})
	if err != nil {
		log.Error("pipeline state", "state", StateFailed, "reason", err)
		return nil, err
	}

	log.Info("pipeline state", "state", StateCompleted, "sections", len(result.Sections))
	return result, nil
}

// validate enforces the per-type request shape invariants.
func validate(req analysis.Request) error {
	switch req.Type {
	case analysis.TypeQA:
		if strings.TrimSpace(req.Question) == "" {
			return fmt.Errorf("%w: question is required for qa analysis", ErrInvalidRequest)
		}
	case analysis.TypeCompare:
		if len(distinct(req.Entities)) < 2 && len(distinct(req.Periods)) < 2 {
			return fmt.Errorf("%w: compare requires at least two entities or two periods", ErrInvalidRequest)
		}
	}
	return nil
}

// retrieveFor executes the retrieval plan for a request. Compare fans
// out one retrieval per comparison target; all other types make a
// single filtered retrieval. Absent filters mean no constraint.
func (a *Analyzer) retrieveFor(ctx context.Context, req analysis.Request) ([]index.Match, error) {
	if req.Type == analysis.TypeCompare {
		return a.retrieveComparison(ctx, req)
	}

	filter := index.Filter{}
	if len(req.Entities) > 0 {
		filter[segment.KeyEntity] = req.Entities[0]
	}
	if len(req.Periods) > 0 {
		filter[segment.KeyPeriod] = req.Periods[0]
	}

	return a.retriever.Retrieve(ctx, a.queryFor(req), filter, a.topK)
}

func (a *Analyzer) retrieveComparison(ctx context.Context, req analysis.Request) ([]index.Match, error) {
	entities := distinct(req.Entities)
	periods := distinct(req.Periods)

	var filters []index.Filter
	if len(entities) >= 2 {
		for _, e := range entities {
			f := index.Filter{segment.KeyEntity: e}
			if len(periods) == 1 {
				f[segment.KeyPeriod] = periods[0]
			}
			filters = append(filters, f)
		}
	} else {
		for _, p := range periods {
			f := index.Filter{segment.KeyPeriod: p}
			if len(entities) == 1 {
				f[segment.KeyEntity] = entities[0]
			}
			filters = append(filters, f)
		}
	}

	var combined []index.Match
	for _, f := range filters {
		matches, err := a.retriever.Retrieve(ctx, queryFinancialPerformance, f, a.topK)
		if err != nil {
			return nil, err
		}
		combined = append(combined, matches...)
	}
	return combined, nil
}

func (a *Analyzer) queryFor(req analysis.Request) string {
	switch req.Type {
	case analysis.TypeQA:
		return req.Question
	case analysis.TypeRisk:
		return queryRiskFactors
	default:
		return queryFinancialPerformance
	}
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
