package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/parser"
	"github.com/dgallion1/finsight/internal/retrieve"
	"github.com/dgallion1/finsight/internal/segment"
)

// Upload is one raw document handed to the ingestor.
type Upload struct {
	Label string // Filename; feeds metadata extraction and unit IDs.
	Data  []byte
}

// DocumentReport is the per-document ingestion outcome.
type DocumentReport struct {
	Label string `json:"label"`
	Units int    `json:"units"`
	Error string `json:"error,omitempty"`
}

// Report summarizes one ingestion batch.
type Report struct {
	Documents  []DocumentReport `json:"documents"`
	UnitsAdded int              `json:"units_added"`
}

// Ingestor parses, segments, embeds and indexes uploaded documents. A
// document that fails at any stage is skipped and reported; the rest of
// the batch continues. Units of a successfully processed document become
// visible in the index as one atomic batch.
type Ingestor struct {
	segmenter     *segment.Segmenter
	embedder      retrieve.Embedder
	ix            *index.Index
	maxConcurrent int
	log           *slog.Logger

	// PDFFallback enables the pdftotext fallback for PDFs the Go
	// library cannot read.
	PDFFallback bool
}

func NewIngestor(segmenter *segment.Segmenter, embedder retrieve.Embedder, ix *index.Index, maxConcurrent int, log *slog.Logger) *Ingestor {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Ingestor{
		segmenter:     segmenter,
		embedder:      embedder,
		ix:            ix,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// Ingest processes a batch of uploads and reports per-document outcomes.
// The returned error is non-nil only when the batch itself is unusable
// (empty); individual document failures live in the report.
func (g *Ingestor) Ingest(ctx context.Context, uploads []Upload) (*Report, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no documents provided", ErrIngestion)
	}

	report := &Report{}
	for _, up := range uploads {
		doc := DocumentReport{Label: up.Label}
		n, err := g.ingestOne(ctx, up)
		if err != nil {
			g.log.Warn("document skipped", "label", up.Label, "error", err)
			doc.Error = err.Error()
		} else {
			doc.Units = n
			report.UnitsAdded += n
			g.log.Info("document ingested", "label", up.Label, "units", n)
		}
		report.Documents = append(report.Documents, doc)

		if ctx.Err() != nil {
			return report, fmt.Errorf("%w: %w", ErrIngestion, ctx.Err())
		}
	}
	return report, nil
}

// ingestOne runs one document through parse, segment, embed and index.
func (g *Ingestor) ingestOne(ctx context.Context, up Upload) (int, error) {
	p, err := parser.ForFile(up.Label)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = g.PDFFallback
	}

	doc, err := p.Parse(bytes.NewReader(up.Data), up.Label)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %s: %w", ErrIngestion, up.Label, err)
	}

	units := g.segmenter.Segment(doc, up.Label)
	if len(units) == 0 {
		return 0, fmt.Errorf("%w: %s produced no text", ErrIngestion, up.Label)
	}

	vectors, err := g.embedAll(ctx, units)
	if err != nil {
		return 0, fmt.Errorf("%w: embed %s: %w", ErrIngestion, up.Label, err)
	}

	if err := g.ix.Add(units, vectors); err != nil {
		return 0, fmt.Errorf("%w: index %s: %w", ErrIngestion, up.Label, err)
	}
	return len(units), nil
}

// embedAll embeds unit texts with bounded concurrency. All units must
// embed successfully for the document to be indexed.
func (g *Ingestor) embedAll(ctx context.Context, units []segment.Unit) ([][]float64, error) {
	vectors := make([][]float64, len(units))
	errs := make([]error, len(units))

	sem := make(chan struct{}, g.maxConcurrent)
	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			vectors[i], errs[i] = withRetry(ctx, func() ([]float64, error) {
				return g.embedder.Embed(ctx, text)
			})
		}(i, u.Text)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", units[i].ID, err)
		}
	}
	return vectors, nil
}
