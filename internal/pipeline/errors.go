package pipeline

import (
	"errors"
	"net/http"

	"github.com/dgallion1/finsight/internal/analysis"
	"github.com/dgallion1/finsight/internal/retrieve"
)

// ErrInvalidRequest reports a malformed or incomplete query request.
// Fatal to that request; never retried.
var ErrInvalidRequest = errors.New("invalid request")

// ErrIngestion reports an unreadable or unparseable source document.
// The document is skipped; ingestion of other documents continues.
var ErrIngestion = errors.New("ingestion error")

// Kind maps a pipeline failure to its taxonomy name and an HTTP status,
// so callers can discriminate "no data found" from "could not
// determine".
func Kind(err error) (string, int) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request", http.StatusBadRequest
	case errors.Is(err, analysis.ErrInsufficientComparisonData):
		return "insufficient_comparison_data", http.StatusUnprocessableEntity
	case errors.Is(err, retrieve.ErrUnavailable):
		return "retrieval_unavailable", http.StatusBadGateway
	case errors.Is(err, analysis.ErrGenerationFailed):
		return "analysis_generation_failed", http.StatusBadGateway
	case errors.Is(err, ErrIngestion):
		return "ingestion_error", http.StatusBadRequest
	default:
		return "internal", http.StatusInternalServerError
	}
}
