package analysis

import (
	"context"
	"fmt"

	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/segment"
)

// RiskTool synthesizes categorized risk disclosures. Units tagged with
// a risk-related section are preferred; when none carry such a tag the
// full retrieval is used as-is.
type RiskTool struct {
	completer Completer
	cfg       Config
}

func (t *RiskTool) Analyze(ctx context.Context, matches []index.Match, req Request) (*Result, error) {
	if len(matches) == 0 {
		return noContentResult(TypeRisk), nil
	}

	selected := riskTagged(matches)
	if len(selected) == 0 {
		selected = matches
	}

	contextText, ids := buildContext(selected, t.cfg)
	user := fmt.Sprintf("Context from documents:\n\n%s", contextText)

	narrative, err := t.completer.Complete(ctx, riskSystemPrompt, user)
	if err != nil {
		return nil, generationFailed(err)
	}

	return &Result{
		Type:        TypeRisk,
		Sections:    parseNarrative(narrative),
		SourceUnits: ids,
		Summary:     summarize(selected),
	}, nil
}

func riskTagged(matches []index.Match) []index.Match {
	var tagged []index.Match
	for _, m := range matches {
		if segment.RiskSections[m.Unit.Metadata[segment.KeySection]] {
			tagged = append(tagged, m)
		}
	}
	return tagged
}
