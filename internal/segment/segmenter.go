// Package segment splits parsed documents into bounded, overlapping
// retrieval units and tags them with best-effort metadata.
package segment

import (
	"fmt"
	"strings"

	"github.com/dgallion1/finsight/internal/parser"
)

// Metadata keys recognized across the retrieval pipeline. A key is
// omitted entirely when its value could not be extracted.
const (
	KeyEntity    = "entity"
	KeyPeriod    = "period"
	KeyQuarter   = "quarter"
	KeySection   = "section"
	KeySource    = "source_document"
	KeyPage      = "page"
	KeyUnitIndex = "unit_index"
)

// Unit is one retrievable slice of a source document. Units are
// immutable after segmentation.
type Unit struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Segmenter splits document text into units of at most MaxUnitSize
// runes, with consecutive units from the same section overlapping by
// roughly Overlap runes. Segmentation is a pure function of its input
// and configuration.
type Segmenter struct {
	MaxUnitSize int // Maximum unit length in runes.
	Overlap     int // Overlap between consecutive units in runes.
}

// New returns a Segmenter, applying defaults for out-of-range values.
func New(maxUnitSize, overlap int) *Segmenter {
	if maxUnitSize <= 0 {
		maxUnitSize = 1000
	}
	if overlap < 0 || overlap >= maxUnitSize {
		overlap = maxUnitSize / 5
	}
	return &Segmenter{MaxUnitSize: maxUnitSize, Overlap: overlap}
}

// Segment produces the ordered units for one parsed document.
// sourceLabel (typically the filename) feeds the metadata heuristics
// and the unit IDs.
func (s *Segmenter) Segment(doc *parser.Document, sourceLabel string) []Unit {
	labelMeta := ExtractLabelMetadata(sourceLabel)

	var units []Unit
	unitIndex := 0

	for _, section := range doc.Sections {
		text := strings.TrimSpace(section.Text)
		if text == "" {
			continue
		}

		sectionName := DetectSection(section.Heading, text)

		for _, piece := range s.split(text) {
			md := make(map[string]string, 7)
			for k, v := range labelMeta {
				md[k] = v
			}
			if sectionName != "" {
				md[KeySection] = sectionName
			}
			md[KeySource] = sourceLabel
			if section.Page > 0 {
				md[KeyPage] = fmt.Sprintf("%d", section.Page)
			}
			md[KeyUnitIndex] = fmt.Sprintf("%d", unitIndex)

			units = append(units, Unit{
				ID:       fmt.Sprintf("%s:%d", sourceLabel, unitIndex),
				Text:     piece,
				Metadata: md,
			})
			unitIndex++
		}
	}

	return units
}

// split breaks text into pieces of at most MaxUnitSize runes. It tries
// paragraph boundaries first, then sentence boundaries, then a fixed
// rune window as last resort. Consecutive pieces carry an overlap seed
// from the tail of the previous piece.
func (s *Segmenter) split(text string) []string {
	if runeLen(text) <= s.MaxUnitSize {
		return []string{text}
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) > 1 {
		return s.pack(paragraphs, "\n\n")
	}

	sentences := splitSentences(text)
	if len(sentences) > 1 {
		return s.pack(sentences, " ")
	}

	return s.fixedSplit(text)
}

// pack greedily joins parts into pieces bounded by MaxUnitSize. A part
// that alone exceeds the bound is split recursively. Each flush seeds
// the next piece with the overlap tail of the previous one.
func (s *Segmenter) pack(parts []string, sep string) []string {
	var result []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			result = append(result, current.String())
			tail := overlapTail(current.String(), s.Overlap)
			current.Reset()
			currentLen = 0
			if tail != "" {
				current.WriteString(tail)
				currentLen = runeLen(tail)
			}
		}
	}

	for _, part := range parts {
		partLen := runeLen(part)

		if partLen > s.MaxUnitSize {
			flush()
			if currentLen > 0 {
				// Drop the seeded overlap; the oversized part is split on
				// its own boundaries.
				current.Reset()
				currentLen = 0
			}
			result = append(result, s.split(part)...)
			continue
		}

		if currentLen > 0 && currentLen+runeLen(sep)+partLen > s.MaxUnitSize {
			flush()
			if currentLen > 0 && currentLen+runeLen(sep)+partLen > s.MaxUnitSize {
				// The overlap seed plus this part would overflow; drop
				// the seed to keep the size bound.
				current.Reset()
				currentLen = 0
			}
		}

		if currentLen > 0 {
			current.WriteString(sep)
			currentLen += runeLen(sep)
		}
		current.WriteString(part)
		currentLen += partLen
	}

	if currentLen > 0 && strings.TrimSpace(current.String()) != "" {
		result = append(result, current.String())
	}

	return result
}

// fixedSplit cuts text into windows of MaxUnitSize runes advancing by
// MaxUnitSize-Overlap, so the overlap is built into the windows.
func (s *Segmenter) fixedSplit(text string) []string {
	runes := []rune(text)
	step := s.MaxUnitSize - s.Overlap
	if step <= 0 {
		step = s.MaxUnitSize
	}

	var result []string
	for start := 0; start < len(runes); start += step {
		end := start + s.MaxUnitSize
		if end > len(runes) {
			end = len(runes)
		}
		result = append(result, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return result
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		if t := strings.TrimSpace(current.String()); t != "" {
			sentences = append(sentences, t)
		}
	}

	return sentences
}

// overlapTail extracts the last n runes of text, trimmed forward to the
// next word boundary so the overlap starts on a whole word.
func overlapTail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return ""
	}
	tail := string(runes[len(runes)-n:])
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}

func runeLen(s string) int {
	return len([]rune(s))
}
