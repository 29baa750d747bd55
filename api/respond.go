package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"toolstation/toolerr"
)

var errBadBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

// readBody reads a raw body up to the configured limit.
func (h *handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadBody, err)
	}
	return data, nil
}

// fail maps err to a status: malformed requests are 400, oversized bodies
// 413, tool conditions 422 with the message the tool produced, anything else
// 500.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, errBadBody.Error())
	case toolerr.IsUserError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// recordUsage charges a successful tool call to the caller. A ledger failure
// is logged and does not fail the call.
func (h *handler) recordUsage(r *http.Request, chars, saved int64) {
	if _, err := h.ledger.RecordUsage(r.Context(), clientFrom(r.Context()), chars, saved); err != nil {
		h.logger.Warn("record usage failed", zap.Error(err))
	}
}
