package analysis

import (
	"regexp"
	"strings"
)

var (
	mdHeadingRe  = regexp.MustCompile(`^#{1,4}\s+(.+?)\s*$`)
	numHeadingRe = regexp.MustCompile(`^\d{1,2}\.\s+([A-Z][^.]{0,78})\s*:?\s*$`)
	boldLineRe   = regexp.MustCompile(`^\*\*(.+?)\*\*:?\s*$`)
)

// parseNarrative splits a model-produced narrative into ordered
// (heading, text) sections. Headings are markdown headers, numbered
// headline lines, or standalone bold lines. Text before the first
// heading becomes an untitled leading section; a narrative with no
// recognizable headings becomes a single "Analysis" section.
func parseNarrative(text string) []Section {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var sections []Section
	heading := ""
	var body []string

	flush := func() {
		t := strings.TrimSpace(strings.Join(body, "\n"))
		if t == "" && heading == "" {
			body = nil
			return
		}
		if t != "" || heading != "" {
			sections = append(sections, Section{Heading: heading, Text: t})
		}
		body = nil
	}

	for _, line := range lines {
		if h := matchHeading(strings.TrimSpace(line)); h != "" {
			flush()
			heading = h
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		return []Section{{Heading: "Analysis", Text: strings.TrimSpace(text)}}
	}
	if len(sections) == 1 && sections[0].Heading == "" {
		sections[0].Heading = "Analysis"
	}
	return sections
}

func matchHeading(line string) string {
	if m := mdHeadingRe.FindStringSubmatch(line); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := numHeadingRe.FindStringSubmatch(line); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := boldLineRe.FindStringSubmatch(line); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
