package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/finsight/internal/parser"
	"github.com/dgallion1/finsight/internal/pipeline"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var uploads []pipeline.Upload
	var rejected []pipeline.DocumentReport
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			rejected = append(rejected, pipeline.DocumentReport{
				Label: filename,
				Error: fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			rejected = append(rejected, pipeline.DocumentReport{
				Label: filename,
				Error: "failed to open file",
			})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			rejected = append(rejected, pipeline.DocumentReport{
				Label: filename,
				Error: fmt.Sprintf("file too large or read error (max %d bytes)", s.cfg.MaxUploadBytes),
			})
			continue
		}

		uploads = append(uploads, pipeline.Upload{Label: filename, Data: data})
	}

	if len(uploads) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(pipeline.Report{Documents: rejected})
		return
	}

	report, err := s.ingestor.Ingest(r.Context(), uploads)
	if err != nil {
		kind, status := pipeline.Kind(err)
		jsonErrorKind(w, err.Error(), kind, status)
		return
	}
	report.Documents = append(report.Documents, rejected...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleIndexClear(w http.ResponseWriter, r *http.Request) {
	s.ix.Clear()
	s.log.Info("index cleared")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func jsonErrorKind(w http.ResponseWriter, msg, kind string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "error_kind": kind})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
