package analysis

import (
	"context"
	"fmt"

	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/segment"
)

// CompareTool synthesizes a side-by-side comparison. It requires the
// retrieved units to span at least two distinct (entity, period)
// groups; a one-sided "comparison" is a failure, not a result.
type CompareTool struct {
	completer Completer
	cfg       Config
}

func (t *CompareTool) Analyze(ctx context.Context, matches []index.Match, req Request) (*Result, error) {
	groups := make(map[string]int)
	for _, m := range matches {
		key := m.Unit.Metadata[segment.KeyEntity] + "\x00" + m.Unit.Metadata[segment.KeyPeriod]
		groups[key]++
	}
	if len(groups) < 2 {
		return nil, fmt.Errorf("%w: %d non-empty (entity, period) group(s)", ErrInsufficientComparisonData, len(groups))
	}

	contextText, ids := buildContext(matches, t.cfg)
	user := fmt.Sprintf("Context from documents:\n\n%s", contextText)

	narrative, err := t.completer.Complete(ctx, compareSystemPrompt, user)
	if err != nil {
		return nil, generationFailed(err)
	}

	return &Result{
		Type:        TypeCompare,
		Sections:    parseNarrative(narrative),
		SourceUnits: ids,
		Summary:     summarize(matches),
	}, nil
}
