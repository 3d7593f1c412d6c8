package parser

import (
	"strings"
	"testing"
)

func TestTextParser_ParagraphsJoinIntoOneSection(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}

	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if doc.Sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Sections[0].Text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Text != "Para one.\n\nPara two." {
		t.Errorf("unexpected text %q", doc.Sections[0].Text)
	}
}

func TestForFile_SupportedExtensions(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.csv", "d.html", "e.pdf", "f.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", name, err)
		}
	}
	if _, err := ForFile("report.xlsx"); err == nil {
		t.Error("expected error for unsupported extension .xlsx")
	}
}

func TestIsSupportedExtension_CaseInsensitive(t *testing.T) {
	if !IsSupportedExtension("Report.PDF") {
		t.Error("expected .PDF to be supported")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
}
