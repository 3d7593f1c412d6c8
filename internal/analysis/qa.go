package analysis

import (
	"context"
	"fmt"

	"github.com/dgallion1/finsight/internal/index"
)

// QATool answers a free-form question from the retrieved units, citing
// the source units it drew on.
type QATool struct {
	completer Completer
	cfg       Config
}

func (t *QATool) Analyze(ctx context.Context, matches []index.Match, req Request) (*Result, error) {
	if len(matches) == 0 {
		return noContentResult(TypeQA), nil
	}

	contextText, ids := buildContext(matches, t.cfg)
	user := fmt.Sprintf("Question: %s\n\nContext from documents:\n\n%s", req.Question, contextText)

	narrative, err := t.completer.Complete(ctx, qaSystemPrompt, user)
	if err != nil {
		return nil, generationFailed(err)
	}

	return &Result{
		Type:        TypeQA,
		Sections:    parseNarrative(narrative),
		SourceUnits: ids,
		Summary:     summarize(matches),
	}, nil
}
