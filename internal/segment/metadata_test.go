package segment

import (
	"strings"
	"testing"
)

func TestExtractLabelMetadata_KnownEntityTokens(t *testing.T) {
	cases := []struct {
		label  string
		entity string
	}{
		{"AAPL_2023_10K.pdf", "Apple"},
		{"alphabet-q2-2024.txt", "Google"},
		{"msft_annual_2022.docx", "Microsoft"},
		{"facebook_2021_Q4.md", "Meta"},
		{"NVDA-2024.html", "Nvidia"},
		// Several entity tokens in one label: scan order decides.
		{"apple_vs_microsoft_2023_Q1.pdf", "Apple"},
		{"msft_amzn_comparison.txt", "Microsoft"},
	}
	for _, c := range cases {
		md := ExtractLabelMetadata(c.label)
		if md[KeyEntity] != c.entity {
			t.Errorf("%s: expected entity %q, got %q", c.label, c.entity, md[KeyEntity])
		}
	}
}

func TestExtractLabelMetadata_MultiEntityLabelIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		md := ExtractLabelMetadata("apple_vs_microsoft_2023_Q1.pdf")
		if md[KeyEntity] != "Apple" {
			t.Fatalf("run %d: expected entity %q, got %q", i, "Apple", md[KeyEntity])
		}
	}
}

func TestExtractLabelMetadata_FallbackLeadingToken(t *testing.T) {
	md := ExtractLabelMetadata("Acme_2023_Q1_10Q.pdf")
	if md[KeyEntity] != "Acme" {
		t.Errorf("expected entity %q, got %q", "Acme", md[KeyEntity])
	}
	if md[KeyPeriod] != "2023" {
		t.Errorf("expected period %q, got %q", "2023", md[KeyPeriod])
	}
	if md[KeyQuarter] != "Q1" {
		t.Errorf("expected quarter %q, got %q", "Q1", md[KeyQuarter])
	}
}

func TestExtractLabelMetadata_AbsentKeysOmitted(t *testing.T) {
	md := ExtractLabelMetadata("42.txt")
	if _, ok := md[KeyEntity]; ok {
		t.Errorf("expected no entity, got %q", md[KeyEntity])
	}
	if _, ok := md[KeyPeriod]; ok {
		t.Errorf("expected no period, got %q", md[KeyPeriod])
	}
	if _, ok := md[KeyQuarter]; ok {
		t.Errorf("expected no quarter, got %q", md[KeyQuarter])
	}
}

func TestExtractLabelMetadata_QuarterCaseInsensitive(t *testing.T) {
	md := ExtractLabelMetadata("tesla_q3_2024.txt")
	if md[KeyQuarter] != "Q3" {
		t.Errorf("expected quarter %q, got %q", "Q3", md[KeyQuarter])
	}
}

func TestDetectSection_FromHeading(t *testing.T) {
	got := DetectSection("Item 1A. Risk Factors", "Some body text.")
	if got != "Risk Factors" {
		t.Errorf("expected %q, got %q", "Risk Factors", got)
	}
}

func TestDetectSection_FromLeadingText(t *testing.T) {
	got := DetectSection("", "Management Discussion and Analysis of results follows.")
	if got != "Management Discussion" {
		t.Errorf("expected %q, got %q", "Management Discussion", got)
	}
}

func TestDetectSection_DeepPhraseIgnored(t *testing.T) {
	// A label phrase far past the leading window is body text.
	text := ""
	for len(text) < 450 {
		text += "filler words without any labels here "
	}
	text += "risk factors"
	if got := DetectSection("", text); got != "" {
		t.Errorf("expected no section, got %q", got)
	}
}

func TestDetectSection_WindowCountsRunes(t *testing.T) {
	// 300 runes of multi-byte filler push the phrase past 400 bytes but
	// keep it inside the 400-rune window.
	text := strings.Repeat("é", 300) + " risk factors ahead"
	if got := DetectSection("", text); got != "Risk Factors" {
		t.Errorf("expected %q, got %q", "Risk Factors", got)
	}
}

func TestDetectSection_NoMatch(t *testing.T) {
	if got := DetectSection("Appendix", "Tables and exhibits."); got != "" {
		t.Errorf("expected no section, got %q", got)
	}
}
