package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.storeFailure(w, r, "load", err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleReplaceData(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	ds, err := models.ParseReplacement(body, time.Now())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.ReplaceAll(r.Context(), ds); err != nil {
		s.storeFailure(w, r, "replace", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearAll(r.Context()); err != nil {
		s.storeFailure(w, r, "clear", err)
		return
	}
	s.log.Info("dataset cleared", "request_id", requestIDFromContext(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var in models.PlayerInput
	if !s.decode(w, r, &in) {
		return
	}
	if models.CleanName(in.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	p, err := s.store.InsertPlayer(r.Context(), in.Name)
	if err != nil {
		s.storeFailure(w, r, "insert_player", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeletePlayer(r.Context(), id); err != nil {
		s.storeFailure(w, r, "delete_player", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAddSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.SessionInput
	if !s.decode(w, r, &in) {
		return
	}
	session, err := in.Session()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.store.AppendSession(r.Context(), id, session)
	if err != nil {
		s.storeFailure(w, r, "append_session", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	players, err := models.ParseImport(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	added, err := s.store.MergeImport(r.Context(), players)
	if err != nil {
		s.storeFailure(w, r, "import", err)
		return
	}
	s.log.Info("import merged", "players", len(players), "added", added, "request_id", requestIDFromContext(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "addedPlayers": added})
}

// readBody reads at most maxBodyBytes of the request body.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "reading body: "+err.Error())
		return nil, false
	}
	return body, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// storeFailure maps a Store error to a response. Backend failures are
// logged with detail and reported generically.
func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "player not found")
	case errors.Is(err, storage.ErrDuplicatePlayer):
		writeError(w, r, http.StatusConflict, "a player with this name already exists")
	case errors.Is(err, models.ErrInvalidSession), errors.Is(err, models.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.metrics.storeError(op)
		s.log.Error("store failure", "op", op, "error", err, "request_id", requestIDFromContext(r))
		writeError(w, r, http.StatusInternalServerError, "storage error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, RequestID: requestIDFromContext(r)})
}
