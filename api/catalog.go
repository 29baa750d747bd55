package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"toolstation/catalog"
)

func (h *handler) listTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := q.Get("lang")
	if lang == "" {
		lang = catalog.DefaultLang
	}
	writeJSON(w, http.StatusOK, catalog.Filter(q.Get("category"), q.Get("q"), lang))
}

// getTool answers one catalog entry and marks it as recently used, as
// opening a tool does.
func (h *handler) getTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "tool not found")
		return
	}
	if _, err := h.ledger.RecordRecentTool(r.Context(), clientFrom(r.Context()), tool.ID); err != nil {
		h.logger.Warn("record recent tool failed", zap.String("tool", tool.ID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, tool)
}
