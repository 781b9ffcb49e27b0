package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/heartlinkapp/discovery/internal/errors"
	"github.com/heartlinkapp/discovery/internal/service/discover"
	"github.com/heartlinkapp/discovery/internal/service/likes"
)

// handleDiscover serves the next feed page for the viewer.
//
// GET /api/v1/discover?page_size=10&age_range=25-35&interest_id=3
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := s.viewerID(w, r)
	if !ok {
		return
	}

	req := discover.PageRequest{
		PageSize: queryInt(r, "page_size"),
		AgeRange: r.URL.Query().Get("age_range"),
	}
	if raw := r.URL.Query().Get("interest_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, apperrors.ErrInvalidFilterRange)
			return
		}
		req.InterestID = &id
	}

	profiles, err := s.discover.NextPage(r.Context(), viewerID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// handleTopProfiles serves the popularity-ranked featured list.
//
// GET /api/v1/discover/top
func (s *Server) handleTopProfiles(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := s.viewerID(w, r)
	if !ok {
		return
	}

	profiles, err := s.top.TopProfiles(r.Context(), viewerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// handleLikes serves the "who liked me" inbox.
//
// GET /api/v1/likes?filter=nearby&page_token=...&page_size=10
// GET /api/v1/likes?advanced=1
func (s *Server) handleLikes(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := s.viewerID(w, r)
	if !ok {
		return
	}

	filter, err := likes.ParseFilter(
		r.URL.Query().Get("filter"),
		r.URL.Query().Get("advanced") == "1",
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var pageToken *string
	if t := r.URL.Query().Get("page_token"); t != "" {
		pageToken = &t
	}

	likers, nextToken, err := s.likes.GetLikes(r.Context(), viewerID, filter, pageToken, queryInt(r, "page_size"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := map[string]any{"likers": likers}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// viewerID extracts the authenticated viewer from the X-User-ID header.
// The header is set by the gateway after authentication; a missing or
// malformed value means the request bypassed it.
func (s *Server) viewerID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.Header.Get("X-User-ID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		s.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing viewer identity"})
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.appCtx.Logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		// do not leak query internals to clients
		msg = "internal error"
		if errors.Is(err, apperrors.ErrUnavailable) {
			msg = "temporarily unavailable, retry later"
		}
		s.appCtx.Logger.Error("request failed",
			"path", r.URL.Path, "status", status, "err", err)
	}

	s.writeJSON(w, status, map[string]any{"error": msg})
}

func queryInt(r *http.Request, key string) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
