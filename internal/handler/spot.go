package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// handleListSpots handles GET /trips/{tripID}/spots.
func (s *Server) handleListSpots(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	spots, err := s.spots.List(r.Context(), ident.IDToken, id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Spot{"data": spots})
}

// handleCreateSpot handles POST /trips/{tripID}/spots. The trip id in the
// path wins over any trip_id in the body.
func (s *Server) handleCreateSpot(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	var params domain.CreateSpotParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}
	params.TripID = id

	created, err := s.spots.Create(r.Context(), ident.IDToken, params)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateSpot handles PATCH /trips/{tripID}/spots/{spotID}.
func (s *Server) handleUpdateSpot(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	spotID, ok := spotID(w, r)
	if !ok {
		return
	}

	var patch domain.SpotPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}

	updated, err := s.spots.Update(r.Context(), ident.IDToken, id, spotID, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteSpot handles DELETE /trips/{tripID}/spots/{spotID}.
func (s *Server) handleDeleteSpot(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	spotID, ok := spotID(w, r)
	if !ok {
		return
	}

	if err := s.spots.Delete(r.Context(), ident.IDToken, id, spotID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func spotID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "spotID"))
	if err != nil {
		respondBadRequest(w, "spot id must be an integer")
		return 0, false
	}
	return id, true
}
