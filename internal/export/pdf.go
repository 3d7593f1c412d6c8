// Package export renders analysis results into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/finsight/internal/analysis"
	"github.com/go-pdf/fpdf"
)

var typeTitles = map[analysis.Type]string{
	analysis.TypeInsight: "Financial Insight Report",
	analysis.TypeCompare: "Comparative Analysis Report",
	analysis.TypeRisk:    "Risk Assessment Report",
	analysis.TypeQA:      "Question & Answer Report",
}

// PDF renders an analysis result as a PDF document.
func PDF(result *analysis.Result) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	title := typeTitles[result.Type]
	if title == "" {
		title = "Analysis Report"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, title, "", "L", false)
	pdf.Ln(2)

	// Coverage line from the summary.
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, coverageLine(result.Summary), "", "L", false)
	pdf.Ln(4)

	for _, section := range result.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 6, section.Heading, "", "L", false)
			pdf.Ln(1)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, section.Text, "", "L", false)
		pdf.Ln(4)
	}

	if len(result.SourceUnits) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, "Sources", "", "L", false)
		pdf.SetFont("Arial", "", 8)
		for _, id := range result.SourceUnits {
			pdf.MultiCell(0, 4, "- "+id, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func coverageLine(s analysis.Summary) string {
	var parts []string
	if len(s.Entities) > 0 {
		parts = append(parts, "Entities: "+strings.Join(s.Entities, ", "))
	}
	if len(s.Periods) > 0 {
		parts = append(parts, "Periods: "+strings.Join(s.Periods, ", "))
	}
	parts = append(parts, fmt.Sprintf("Sources: %d", s.SourceCount))
	return strings.Join(parts, " | ")
}
