package analysis

import (
	"context"
	"fmt"

	"github.com/dgallion1/finsight/internal/index"
)

// InsightTool synthesizes metrics, highlights, initiatives and outlook
// from retrieved units for one entity or period.
type InsightTool struct {
	completer Completer
	cfg       Config
}

func (t *InsightTool) Analyze(ctx context.Context, matches []index.Match, req Request) (*Result, error) {
	if len(matches) == 0 {
		return noContentResult(TypeInsight), nil
	}

	contextText, ids := buildContext(matches, t.cfg)
	user := fmt.Sprintf("Context from documents:\n\n%s", contextText)

	narrative, err := t.completer.Complete(ctx, insightSystemPrompt, user)
	if err != nil {
		return nil, generationFailed(err)
	}

	return &Result{
		Type:        TypeInsight,
		Sections:    parseNarrative(narrative),
		SourceUnits: ids,
		Summary:     summarize(matches),
	}, nil
}
