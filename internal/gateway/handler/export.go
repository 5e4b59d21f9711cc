package handler

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	exportsvc "codebundle/internal/gateway/service/export"
	t "codebundle/internal/types"
)

const maxExportBody = 8 << 20

// ExportHandler serves the plain JSON endpoints used by browser clients.
type ExportHandler struct {
	svc *exportsvc.Service
}

func NewExportHandler(svc *exportsvc.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// HandleExport accepts the export payload and always answers with an
// ExportResponse; failures are reported as ok=false.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in t.ExportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExportBody)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, t.ExportResponse{OK: false, Error: "invalid json body"})
		return
	}
	resp, err := h.svc.Export(r.Context(), in)
	if err != nil {
		writeJSON(w, statusFor(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ExportHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	root := strings.TrimSpace(r.URL.Query().Get("root"))
	tree, err := h.svc.Tree(r.Context(), root)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *ExportHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	recs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": recs})
}

func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, exportsvc.ErrRootNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
