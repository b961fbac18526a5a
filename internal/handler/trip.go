package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/middleware"
	"github.com/hayabusatrip/gateway/internal/session"
)

// maxImageBytes caps the decoded size of an uploaded image part.
const maxImageBytes = 10 << 20

// tripListResponse is the body of GET /trips.
type tripListResponse struct {
	Data       []domain.Trip     `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// identity returns the authenticated caller and their session. The auth
// middleware guarantees an identity on protected routes; the false branch
// only fires when a handler is mounted without it.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, *session.Session, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "認証に失敗しました。")
		return middleware.Identity{}, nil, false
	}
	return ident, s.sessions.Get(ident.UID), true
}

// handleListTrips handles GET /trips. The filter spec comes from the
// destination, year, month, day, and status query parameters; absent or
// "all" values leave that axis unconstrained. An optional page parameter
// requests a zero-based page index.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	spec := domain.FilterSpec{
		Destination: q.Get("destination"),
		Year:        q.Get("year"),
		Month:       q.Get("month"),
		Day:         q.Get("day"),
		Status:      q.Get("status"),
	}

	var page *int
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, "page must be an integer")
			return
		}
		page = &n
	}

	trips, meta, err := s.trips.List(r.Context(), sess, ident.IDToken, spec, page, s.pageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripListResponse{Data: trips, Pagination: meta})
}

// handleCreateTrip handles POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}

	var params domain.CreateTripParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}

	created, err := s.trips.Create(r.Context(), sess, ident.IDToken, params)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetTrip handles GET /trips/{tripID}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	ident, _, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.Get(r.Context(), ident.IDToken, id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// handleGetSharedTrip handles GET /shared/{tripToken}, the unauthenticated
// view of a published trip.
func (s *Server) handleGetSharedTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByToken(r.Context(), chi.URLParam(r, "tripToken"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// handleUpdateTrip handles PATCH /trips/{tripID}. A plain JSON body carries
// only field changes; a multipart body carries the patch in a "trip" part
// plus the new image in an "image" file part.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	var patch domain.TripPatch
	var image *domain.ImageFile

	if isMultipart(r) {
		var err error
		patch, image, err = decodeTripMultipart(r)
		if err != nil {
			respondBadRequest(w, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondBadRequest(w, "request body must be valid JSON")
		return
	}

	updated, err := s.trips.Update(r.Context(), sess, ident.IDToken, id, patch, image)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), sess, ident.IDToken, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTripDate handles DELETE /trips/{tripID}/dates/{date}. The
// response carries the trip with its shrunken date range.
func (s *Server) handleDeleteTripDate(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	updated, err := s.trips.DeleteDate(r.Context(), sess, ident.IDToken, id, chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleCopyTrip handles POST /trips/{tripID}/copies.
func (s *Server) handleCopyTrip(w http.ResponseWriter, r *http.Request) {
	ident, sess, ok := s.identity(w, r)
	if !ok {
		return
	}
	id, ok := tripID(w, r)
	if !ok {
		return
	}

	dup, err := s.trips.Copy(r.Context(), sess, ident.IDToken, id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dup)
}

// --- request helpers --------------------------------------------------------

func tripID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "tripID"))
	if err != nil {
		respondBadRequest(w, "trip id must be an integer")
		return 0, false
	}
	return id, true
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// decodeTripMultipart reads the "trip" JSON part and the optional "image"
// file part of a multipart PATCH body.
func decodeTripMultipart(r *http.Request) (domain.TripPatch, *domain.ImageFile, error) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return domain.TripPatch{}, nil, errors.New("malformed multipart body")
	}

	var patch domain.TripPatch
	if raw := r.FormValue("trip"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &patch); err != nil {
			return domain.TripPatch{}, nil, errors.New("trip part must be valid JSON")
		}
	}

	image, err := formImage(r, "image")
	if err != nil {
		return domain.TripPatch{}, nil, err
	}
	return patch, image, nil
}

// formImage reads an optional file part into a domain.ImageFile. Returns
// (nil, nil) when the part is absent.
func formImage(r *http.Request, field string) (*domain.ImageFile, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(field + " part is malformed")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, errors.New(field + " part could not be read")
	}
	return &domain.ImageFile{ContentType: partContentType(header), Data: data}, nil
}

func partContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
