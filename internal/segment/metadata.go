package segment

import (
	"regexp"
	"strings"
)

// Known entity tokens in scan order, mapped to their canonical display
// names. Tickers and common aliases both resolve; the first token found
// in a label wins, so extraction stays deterministic when a label
// mentions several entities.
var entityTokens = []struct {
	token     string
	canonical string
}{
	{"apple", "Apple"},
	{"aapl", "Apple"},
	{"google", "Google"},
	{"alphabet", "Google"},
	{"googl", "Google"},
	{"microsoft", "Microsoft"},
	{"msft", "Microsoft"},
	{"amazon", "Amazon"},
	{"amzn", "Amazon"},
	{"tesla", "Tesla"},
	{"tsla", "Tesla"},
	{"netflix", "Netflix"},
	{"nflx", "Netflix"},
	{"meta", "Meta"},
	{"facebook", "Meta"},
	{"fb", "Meta"},
	{"nvidia", "Nvidia"},
	{"nvda", "Nvidia"},
}

// Section labels commonly found in financial reports, canonical display
// form keyed by the lowercase phrase scanned for.
var sectionLabels = []struct {
	phrase    string
	canonical string
}{
	{"executive summary", "Executive Summary"},
	{"management discussion", "Management Discussion"},
	{"financial highlights", "Financial Highlights"},
	{"risk factors", "Risk Factors"},
	{"business overview", "Business Overview"},
	{"results of operations", "Results of Operations"},
	{"liquidity and capital resources", "Liquidity and Capital Resources"},
	{"market risk", "Market Risk"},
	{"legal proceedings", "Legal Proceedings"},
}

// RiskSections lists the section labels the risk tool prioritizes.
var RiskSections = map[string]bool{
	"Risk Factors":      true,
	"Market Risk":       true,
	"Legal Proceedings": true,
}

var (
	yearRe    = regexp.MustCompile(`20\d{2}`)
	quarterRe = regexp.MustCompile(`(?i)Q[1-4]`)
	leadRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z]+`)
)

// ExtractLabelMetadata derives entity, period and quarter from a
// filename-like label. Extraction is best-effort: keys for values that
// cannot be determined are simply absent from the returned map.
func ExtractLabelMetadata(label string) map[string]string {
	md := make(map[string]string, 3)
	lower := strings.ToLower(label)

	for _, e := range entityTokens {
		if strings.Contains(lower, e.token) {
			md[KeyEntity] = e.canonical
			break
		}
	}
	if _, ok := md[KeyEntity]; !ok {
		// Fall back to the leading alphabetic token of the label,
		// e.g. "Acme_2023_Q1_10Q.pdf" -> "Acme".
		if m := leadRe.FindString(label); m != "" {
			md[KeyEntity] = strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
		}
	}

	if m := yearRe.FindString(label); m != "" {
		md[KeyPeriod] = m
	}
	if m := quarterRe.FindString(label); m != "" {
		md[KeyQuarter] = strings.ToUpper(m)
	}

	return md
}

// DetectSection scans a section heading and the leading text of a unit
// for a known financial-report section label. Returns "" when nothing
// matches.
func DetectSection(heading, text string) string {
	if heading != "" {
		h := strings.ToLower(heading)
		for _, s := range sectionLabels {
			if strings.Contains(h, s.phrase) {
				return s.canonical
			}
		}
	}

	// Only the leading text is scanned; a phrase deep inside a unit is
	// body text, not a header. The window is counted in runes like the
	// segmenter's sizes.
	lead := strings.ToLower(text)
	if runes := []rune(lead); len(runes) > 400 {
		lead = string(runes[:400])
	}
	for _, s := range sectionLabels {
		if strings.Contains(lead, s.phrase) {
			return s.canonical
		}
	}
	return ""
}
