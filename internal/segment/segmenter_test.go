package segment

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/finsight/internal/parser"
)

func TestSegment_ShortTextSingleUnit(t *testing.T) {
	doc := &parser.Document{
		Sections: []parser.Section{{Text: "Revenue grew 10% year over year."}},
	}
	s := New(1000, 200)
	units := s.Segment(doc, "Acme_2023_Q1_10Q.pdf")

	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	u := units[0]
	if u.Text != "Revenue grew 10% year over year." {
		t.Errorf("unexpected text %q", u.Text)
	}
	if u.ID != "Acme_2023_Q1_10Q.pdf:0" {
		t.Errorf("unexpected id %q", u.ID)
	}
}

func TestSegment_LabelMetadataApplied(t *testing.T) {
	doc := &parser.Document{
		Sections: []parser.Section{{
			Heading: "Risk Factors",
			Text:    "Competition is intense across all markets.",
			Page:    3,
		}},
	}
	s := New(1000, 200)
	units := s.Segment(doc, "Acme_2023_Q1_10Q.pdf")

	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	md := units[0].Metadata
	want := map[string]string{
		KeyEntity:    "Acme",
		KeyPeriod:    "2023",
		KeyQuarter:   "Q1",
		KeySection:   "Risk Factors",
		KeySource:    "Acme_2023_Q1_10Q.pdf",
		KeyPage:      "3",
		KeyUnitIndex: "0",
	}
	if !reflect.DeepEqual(md, want) {
		t.Errorf("expected metadata %v, got %v", want, md)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&sb, "Sentence number %d about quarterly results. ", i)
	}
	doc := &parser.Document{
		Sections: []parser.Section{{Text: sb.String()}},
	}
	s := New(300, 60)

	// The label names two entities; the derived metadata must still be
	// identical run to run.
	a := s.Segment(doc, "msft_vs_google_2024_annual.txt")
	b := s.Segment(doc, "msft_vs_google_2024_annual.txt")

	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical unit sequences for identical input")
	}
	if len(a) < 2 {
		t.Fatalf("expected multiple units, got %d", len(a))
	}
	if a[0].Metadata[KeyEntity] != "Google" {
		t.Errorf("expected entity %q from scan order, got %q", "Google", a[0].Metadata[KeyEntity])
	}
}

func TestSegment_UnitSizeBound(t *testing.T) {
	cases := []string{
		// Paragraph-splittable.
		strings.Repeat("A paragraph of moderate length about revenue.\n\n", 60),
		// Sentence-splittable single paragraph.
		strings.Repeat("Margins improved due to cost discipline. ", 200),
		// No boundaries at all.
		strings.Repeat("x", 5000),
	}
	s := New(400, 80)
	for i, text := range cases {
		doc := &parser.Document{Sections: []parser.Section{{Text: text}}}
		units := s.Segment(doc, "doc.txt")
		if len(units) == 0 {
			t.Fatalf("case %d: expected units", i)
		}
		for _, u := range units {
			if n := len([]rune(u.Text)); n > s.MaxUnitSize {
				t.Errorf("case %d: unit %s has %d runes, max %d", i, u.ID, n, s.MaxUnitSize)
			}
		}
	}
}

func TestSegment_UnitIndexMonotonic(t *testing.T) {
	doc := &parser.Document{
		Sections: []parser.Section{
			{Heading: "A", Text: strings.Repeat("First section sentence. ", 50)},
			{Heading: "B", Text: strings.Repeat("Second section sentence. ", 50)},
		},
	}
	s := New(300, 50)
	units := s.Segment(doc, "doc.txt")
	if len(units) < 3 {
		t.Fatalf("expected several units, got %d", len(units))
	}
	for i, u := range units {
		if u.Metadata[KeyUnitIndex] != fmt.Sprintf("%d", i) {
			t.Errorf("unit %d: expected unit_index %d, got %s", i, i, u.Metadata[KeyUnitIndex])
		}
		if u.ID != fmt.Sprintf("doc.txt:%d", i) {
			t.Errorf("unit %d: unexpected id %q", i, u.ID)
		}
	}
}

func TestSegment_EmptySectionsSkipped(t *testing.T) {
	doc := &parser.Document{
		Sections: []parser.Section{
			{Text: "   "},
			{Text: ""},
			{Text: "Real content."},
		},
	}
	s := New(1000, 200)
	units := s.Segment(doc, "doc.txt")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
}

func TestSegment_ConsecutiveUnitsOverlap(t *testing.T) {
	text := strings.Repeat("Operating income rose steadily through the period. ", 100)
	doc := &parser.Document{Sections: []parser.Section{{Text: text}}}
	s := New(300, 80)
	units := s.Segment(doc, "doc.txt")
	if len(units) < 2 {
		t.Fatalf("expected multiple units, got %d", len(units))
	}

	// The second unit should start with text already present at the end
	// of the first.
	head := strings.Fields(units[1].Text)
	if len(head) == 0 {
		t.Fatal("second unit is empty")
	}
	if !strings.Contains(units[0].Text, head[0]+" "+head[1]) {
		t.Errorf("expected overlap between units, first ends %q, second starts %q",
			tail(units[0].Text, 60), units[1].Text[:60])
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
