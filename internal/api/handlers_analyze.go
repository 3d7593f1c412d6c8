package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/finsight/internal/analysis"
	"github.com/dgallion1/finsight/internal/export"
	"github.com/dgallion1/finsight/internal/pipeline"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErrorKind(w, "invalid request body: "+err.Error(), "invalid_request", http.StatusBadRequest)
		return
	}

	result, err := s.analyzer.Run(r.Context(), req)
	if err != nil {
		kind, status := pipeline.Kind(err)
		jsonErrorKind(w, err.Error(), kind, status)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		data, err := export.PDF(result)
		if err != nil {
			jsonError(w, "pdf export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="analysis.pdf"`)
		w.Write(data)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
