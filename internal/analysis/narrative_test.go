package analysis

import "testing"

func TestParseNarrative_MarkdownHeadings(t *testing.T) {
	text := "## Key Metrics\nRevenue up 10%.\n\n## Outlook\nStable demand."
	sections := parseNarrative(text)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "Key Metrics" || sections[0].Text != "Revenue up 10%." {
		t.Errorf("unexpected section 0: %+v", sections[0])
	}
	if sections[1].Heading != "Outlook" {
		t.Errorf("unexpected section 1: %+v", sections[1])
	}
}

func TestParseNarrative_NumberedHeadings(t *testing.T) {
	text := "1. Operational Risks\nSupply chain exposure.\n2. Financial Risks\nCurrency fluctuation."
	sections := parseNarrative(text)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "Operational Risks" {
		t.Errorf("expected heading %q, got %q", "Operational Risks", sections[0].Heading)
	}
}

func TestParseNarrative_BoldHeadings(t *testing.T) {
	text := "**Summary**\nGood quarter.\n\n**Details**\nMargins expanded."
	sections := parseNarrative(text)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "Summary" {
		t.Errorf("expected heading %q, got %q", "Summary", sections[0].Heading)
	}
}

func TestParseNarrative_NoHeadingsFallsBack(t *testing.T) {
	text := "Just a flat narrative with no structure at all."
	sections := parseNarrative(text)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Heading != "Analysis" {
		t.Errorf("expected fallback heading %q, got %q", "Analysis", sections[0].Heading)
	}
	if sections[0].Text != text {
		t.Errorf("expected full text preserved, got %q", sections[0].Text)
	}
}

func TestParseNarrative_LeadingTextBeforeFirstHeading(t *testing.T) {
	text := "Preamble paragraph.\n\n## First\nBody."
	sections := parseNarrative(text)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "" || sections[0].Text != "Preamble paragraph." {
		t.Errorf("unexpected leading section: %+v", sections[0])
	}
	if sections[1].Heading != "First" {
		t.Errorf("unexpected section 1: %+v", sections[1])
	}
}
