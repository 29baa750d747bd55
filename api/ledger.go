package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"toolstation/catalog"
)

func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	u, err := h.ledger.Usage(r.Context(), clientFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type recentResponse struct {
	RecentTools []string       `json:"recentTools"`
	Tools       []catalog.Tool `json:"tools"`
}

// getRecent answers the stored ids plus the catalog entries they resolve to.
// Ids the catalog no longer knows are kept in the list but not resolved.
func (h *handler) getRecent(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ledger.Recent(r.Context(), clientFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recentResponse{RecentTools: ids, Tools: catalog.Resolve(ids)})
}

// useTool records a tool as recently used. Only catalog ids are accepted.
func (h *handler) useTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, "tool not found")
		return
	}
	ids, err := h.ledger.RecordRecentTool(r.Context(), clientFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recentResponse{RecentTools: ids, Tools: catalog.Resolve(ids)})
}
