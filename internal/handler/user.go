package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// handleGetUser handles GET /users/me.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	u, err := s.users.Get(r.Context(), ident.IDToken, ident.UID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser handles POST /users. The uid always comes from the
// verified token, never from the body.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	var params domain.CreateUserParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}
	params.UID = ident.UID

	u, err := s.users.Create(r.Context(), ident.IDToken, params)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// handleUpdateUser handles PATCH /users/me. A plain JSON body carries field
// changes; a multipart body carries the patch in a "user" part plus the new
// icon in an "icon" file part.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	var patch domain.UserPatch
	var icon *domain.ImageFile

	if isMultipart(r) {
		var err error
		patch, icon, err = decodeUserMultipart(r)
		if err != nil {
			respondBadRequest(w, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}

	u, err := s.users.Update(r.Context(), ident.IDToken, ident.UID, patch, icon)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// handleDeleteUser handles DELETE /users/me.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), ident.IDToken, ident.UID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeUserMultipart(r *http.Request) (domain.UserPatch, *domain.ImageFile, error) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return domain.UserPatch{}, nil, errors.New("malformed multipart body")
	}

	var patch domain.UserPatch
	if raw := r.FormValue("user"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &patch); err != nil {
			return domain.UserPatch{}, nil, errors.New("user part must be valid JSON")
		}
	}

	icon, err := formImage(r, "icon")
	if err != nil {
		return domain.UserPatch{}, nil, err
	}
	return patch, icon, nil
}
