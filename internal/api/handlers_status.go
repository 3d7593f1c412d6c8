package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"units":            s.ix.Len(),
		"entities":         s.ix.Entities(),
		"periods":          s.ix.Periods(),
		"embed_model":      s.llm.EmbedModel(),
		"completion_model": s.llm.CompletionModel(),
		"llm_stats":        s.llm.Stats.Snapshot(),
	})
}
