package server

import (
	"net/http"
	"strconv"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/claude/trainload/internal/models"
)

// handleStats serves the dashboard view so that thin front ends need not
// aggregate themselves. Query: profile (desktop|tablet), player (id), limit.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	profile, err := dashboard.ProfileByName(q.Get("profile"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if l := q.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		profile.RecentLimit = parsed
	}

	ds, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.storeFailure(w, r, "load", err)
		return
	}

	var selected *models.Player
	if id := q.Get("player"); id != "" {
		i := ds.PlayerIndex(id)
		if i < 0 {
			writeError(w, r, http.StatusNotFound, "player not found")
			return
		}
		selected = &ds.Players[i]
	}
	writeJSON(w, http.StatusOK, profile.Build(ds, selected))
}
