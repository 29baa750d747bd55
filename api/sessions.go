package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"toolstation/session"
)

type sessionResponse struct {
	session.Info
	View session.View `json:"view"`
}

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List(clientFrom(r.Context()))
	infos := make([]session.Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tool string `json:"tool"`
		Text string `json:"text"`
	}
	if err := h.decodeBody(w, r, &req); err != nil || req.Tool == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.manager.Create(clientFrom(r.Context()), req.Tool)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownTool):
			writeError(w, http.StatusNotFound, "tool not found")
		case errors.Is(err, session.ErrUnsupportedTool):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.fail(w, r, err)
		}
		return
	}
	v := s.View()
	if req.Text != "" {
		v = s.SetText(req.Text)
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Info: s.Info(), View: v})
}

// ownedSession looks up the session named in the path. Sessions of other
// clients are reported as missing.
func (h *handler) ownedSession(r *http.Request) (*session.Session, bool) {
	s, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok || s.Client != clientFrom(r.Context()) {
		return nil, false
	}
	return s, true
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedSession(r)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Info: s.Info(), View: s.View()})
}

func (h *handler) killSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedSession(r)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err := h.manager.Kill(s.ID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
