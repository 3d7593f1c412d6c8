// Package analysis implements the four report-analysis tools. Each tool
// consumes retrieved units and synthesizes a structured narrative via
// the hosted completion capability.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/segment"
)

// Type identifies one of the four analysis strategies.
type Type string

const (
	TypeInsight Type = "insight"
	TypeCompare Type = "compare"
	TypeRisk    Type = "risk"
	TypeQA      Type = "qa"
)

// ParseType validates a caller-supplied analysis type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case TypeInsight:
		return TypeInsight, nil
	case TypeCompare:
		return TypeCompare, nil
	case TypeRisk:
		return TypeRisk, nil
	case TypeQA:
		return TypeQA, nil
	}
	return "", fmt.Errorf("unknown analysis type: %q", s)
}

// Request is one analysis query. Entities and Periods constrain
// retrieval; Compare requires at least two targets among them, QA
// requires a non-empty Question.
type Request struct {
	Type     Type     `json:"analysis_type"`
	Entities []string `json:"entities,omitempty"`
	Periods  []string `json:"periods,omitempty"`
	Question string   `json:"question,omitempty"`
}

// Section is one heading/text block of a synthesized narrative.
type Section struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// Summary aggregates the metadata of the units an analysis drew on.
type Summary struct {
	Entities    []string `json:"entities"`
	Periods     []string `json:"periods"`
	SourceCount int      `json:"source_count"`
}

// Result is an immutable analysis outcome. Export consumers read it;
// nothing mutates it after construction.
type Result struct {
	Type        Type      `json:"analysis_type"`
	Sections    []Section `json:"sections"`
	SourceUnits []string  `json:"source_units"`
	Summary     Summary   `json:"summary"`
}

// Completer is the hosted completion capability.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Tool is one analysis strategy over retrieved units.
type Tool interface {
	Analyze(ctx context.Context, matches []index.Match, req Request) (*Result, error)
}

// ErrInsufficientComparisonData reports that fewer than two non-empty
// (entity, period) groups were available for a comparison.
var ErrInsufficientComparisonData = errors.New("insufficient comparison data")

// ErrGenerationFailed reports a completion-capability failure. It wraps
// the underlying cause so retryability stays detectable.
var ErrGenerationFailed = errors.New("analysis generation failed")

func generationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// Config bounds context assembly for all tools.
type Config struct {
	MaxContextChars int // Combined context budget.
	UnitTextCap     int // Per-unit text cap.
}

func (c Config) withDefaults() Config {
	if c.MaxContextChars <= 0 {
		c.MaxContextChars = 12000
	}
	if c.UnitTextCap <= 0 {
		c.UnitTextCap = 1000
	}
	return c
}

// NewToolSet builds the static type-to-tool mapping, one instance per
// analysis type, bound at process start.
func NewToolSet(completer Completer, cfg Config) map[Type]Tool {
	cfg = cfg.withDefaults()
	return map[Type]Tool{
		TypeInsight: &InsightTool{completer: completer, cfg: cfg},
		TypeCompare: &CompareTool{completer: completer, cfg: cfg},
		TypeRisk:    &RiskTool{completer: completer, cfg: cfg},
		TypeQA:      &QATool{completer: completer, cfg: cfg},
	}
}

// buildContext renders retrieved units into a bounded prompt context.
// Matches arrive ordered by descending similarity, so exceeding the
// budget drops the least similar units first. Returns the rendered
// context and the IDs of the units that made it in.
func buildContext(matches []index.Match, cfg Config) (string, []string) {
	var parts []string
	var ids []string
	used := 0

	for i, m := range matches {
		text := m.Unit.Text
		if runes := []rune(text); len(runes) > cfg.UnitTextCap {
			text = string(runes[:cfg.UnitTextCap])
		}
		block := fmt.Sprintf("%s\n%s\n", sourceHeader(i+1, m.Unit), text)
		if used+len(block) > cfg.MaxContextChars && len(parts) > 0 {
			break
		}
		parts = append(parts, block)
		ids = append(ids, m.Unit.ID)
		used += len(block)
	}

	return strings.Join(parts, "\n"), ids
}

func sourceHeader(n int, u segment.Unit) string {
	md := u.Metadata
	entity := valueOr(md, segment.KeyEntity, "Unknown")
	period := valueOr(md, segment.KeyPeriod, "Unknown")
	quarter := valueOr(md, segment.KeyQuarter, "")
	section := valueOr(md, segment.KeySection, "General")

	header := fmt.Sprintf("Source %d: %s - %s %s - %s", n, entity, period, quarter, section)
	if page, ok := md[segment.KeyPage]; ok {
		header += fmt.Sprintf(" (Page %s)", page)
	}
	return strings.Join(strings.Fields(header), " ")
}

func valueOr(md map[string]string, key, fallback string) string {
	if v, ok := md[key]; ok && v != "" {
		return v
	}
	return fallback
}

// summarize collects the distinct entities and periods present in the
// retrieved units.
func summarize(matches []index.Match) Summary {
	entities := make(map[string]bool)
	periods := make(map[string]bool)
	for _, m := range matches {
		if v, ok := m.Unit.Metadata[segment.KeyEntity]; ok {
			entities[v] = true
		}
		if v, ok := m.Unit.Metadata[segment.KeyPeriod]; ok {
			periods[v] = true
		}
	}
	return Summary{
		Entities:    sortedKeys(entities),
		Periods:     sortedKeys(periods),
		SourceCount: len(matches),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// noContentResult is the explicit empty-retrieval outcome for tools
// that tolerate missing context.
func noContentResult(t Type) *Result {
	return &Result{
		Type: t,
		Sections: []Section{{
			Heading: "No Relevant Content",
			Text:    "No relevant content found in the indexed documents for this request.",
		}},
		SourceUnits: []string{},
		Summary:     Summary{Entities: []string{}, Periods: []string{}},
	}
}
