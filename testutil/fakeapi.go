// Package testutil provides test helpers shared across packages.
//
// FakeUpstream is an in-memory stand-in for the upstream trip API. It
// speaks the same wire contract the real API does: flat JSON responses,
// request bodies nested under a root key, bearer tokens on authenticated
// routes.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// FakeUpstream is an in-memory upstream trip API for integration tests.
type FakeUpstream struct {
	Server *httptest.Server

	mu     sync.Mutex
	nextID int
	trips  map[int]domain.Trip
	spots  map[int]domain.Spot
	users  map[string]domain.User
}

// NewFakeUpstream starts a fake upstream API. The server is closed
// automatically when the test finishes.
func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{
		nextID: 1,
		trips:  make(map[int]domain.Trip),
		spots:  make(map[int]domain.Spot),
		users:  make(map[string]domain.User),
	}

	r := chi.NewRouter()
	r.Get("/users/{uid}/trips", f.listTrips)
	r.Post("/trips", f.createTrip)
	r.Get("/trips/token/{token}", f.getTripByToken)
	r.Get("/trips/{id}", f.getTrip)
	r.Patch("/trips/{id}", f.updateTrip)
	r.Delete("/trips/{id}", f.deleteTrip)
	r.Delete("/trips/{id}/dates/{date}", f.deleteTripDate)
	r.Post("/trips/{id}/copies", f.copyTrip)

	r.Get("/trips/{id}/spots", f.listSpots)
	r.Post("/trips/{id}/spots", f.createSpot)
	r.Patch("/trips/{id}/spots/{spotID}", f.updateSpot)
	r.Delete("/trips/{id}/spots/{spotID}", f.deleteSpot)

	r.Post("/users", f.createUser)
	r.Get("/users/{uid}", f.getUser)
	r.Patch("/users/{uid}", f.updateUser)
	r.Delete("/users/{uid}", f.deleteUser)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake's base URL for wiring into a client.
func (f *FakeUpstream) URL() string { return f.Server.URL }

// SeedTrip stores a trip, assigning an id and token if absent, and returns
// the stored record.
func (f *FakeUpstream) SeedTrip(trip domain.Trip) domain.Trip {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip.ID == 0 {
		trip.ID = f.nextID
		f.nextID++
	} else if trip.ID >= f.nextID {
		f.nextID = trip.ID + 1
	}
	if trip.TripToken == "" {
		trip.TripToken = uuid.NewString()
	}
	f.trips[trip.ID] = trip
	return trip
}

// TripCount reports the number of stored trips.
func (f *FakeUpstream) TripCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.trips)
}

// --- trips ------------------------------------------------------------------

// listTrips returns every stored trip. The fake is single tenant, so the
// uid path parameter is accepted but not used for scoping.
func (f *FakeUpstream) listTrips(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []domain.Trip{}
	for id := 1; id < f.nextID; id++ {
		if trip, ok := f.trips[id]; ok {
			out = append(out, trip)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeUpstream) createTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Trip domain.CreateTripParams `json:"trip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	trip := domain.Trip{
		ID:           f.nextID,
		UserID:       req.Trip.UserID,
		PrefectureID: req.Trip.PrefectureID,
		Title:        req.Trip.Title,
		StartDate:    req.Trip.StartDate,
		EndDate:      req.Trip.EndDate,
		TripToken:    uuid.NewString(),
	}
	f.nextID++
	f.trips[trip.ID] = trip
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, trip)
}

func (f *FakeUpstream) getTrip(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	f.mu.Lock()
	trip, ok := f.trips[id]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (f *FakeUpstream) getTripByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, trip := range f.trips {
		if trip.TripToken == token && trip.IsPublic {
			writeJSON(w, http.StatusOK, trip)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *FakeUpstream) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req struct {
		Trip domain.TripPatch `json:"trip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	trip, ok := f.trips[id]
	if !ok {
		f.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	p := req.Trip
	if p.PrefectureID != nil {
		trip.PrefectureID = *p.PrefectureID
	}
	if p.Title != nil {
		trip.Title = *p.Title
	}
	if p.StartDate != nil {
		trip.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		trip.EndDate = *p.EndDate
	}
	if p.Memo != nil {
		trip.Memo = *p.Memo
	}
	if p.ImagePath != nil {
		trip.ImagePath = *p.ImagePath
	}
	if p.IsPublic != nil {
		trip.IsPublic = *p.IsPublic
	}
	f.trips[id] = trip
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, trip)
}

func (f *FakeUpstream) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	f.mu.Lock()
	_, ok := f.trips[id]
	delete(f.trips, id)
	for sid, spot := range f.spots {
		if spot.TripID == id {
			delete(f.spots, sid)
		}
	}
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeUpstream) deleteTripDate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	date := chi.URLParam(r, "date")

	f.mu.Lock()
	trip, ok := f.trips[id]
	if ok {
		// Removing the last day shrinks the range from the end; interior
		// removal is approximated the same way, which is enough for tests.
		if trip.EndDate == date {
			trip.EndDate = trip.StartDate
		}
		f.trips[id] = trip
	}
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (f *FakeUpstream) copyTrip(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	f.mu.Lock()
	src, ok := f.trips[id]
	if !ok {
		f.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	dup := src
	dup.ID = f.nextID
	dup.TripToken = uuid.NewString()
	dup.IsPublic = false
	f.nextID++
	f.trips[dup.ID] = dup
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, dup)
}

// --- spots ------------------------------------------------------------------

func (f *FakeUpstream) listSpots(w http.ResponseWriter, r *http.Request) {
	tripID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Spot{}
	for id := 1; id < f.nextID; id++ {
		if spot, ok := f.spots[id]; ok && spot.TripID == tripID {
			out = append(out, spot)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeUpstream) createSpot(w http.ResponseWriter, r *http.Request) {
	tripID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req struct {
		Spot domain.CreateSpotParams `json:"spot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	spot := domain.Spot{
		ID:        f.nextID,
		TripID:    tripID,
		Category:  req.Spot.Category,
		Name:      req.Spot.Name,
		Date:      req.Spot.Date,
		StartTime: req.Spot.StartTime,
		EndTime:   req.Spot.EndTime,
		Cost:      req.Spot.Cost,
		Memo:      req.Spot.Memo,
	}
	f.nextID++
	f.spots[spot.ID] = spot
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, spot)
}

func (f *FakeUpstream) updateSpot(w http.ResponseWriter, r *http.Request) {
	spotID, _ := strconv.Atoi(chi.URLParam(r, "spotID"))

	var req struct {
		Spot domain.SpotPatch `json:"spot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	spot, ok := f.spots[spotID]
	if !ok {
		f.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	p := req.Spot
	if p.Category != nil {
		spot.Category = *p.Category
	}
	if p.Name != nil {
		spot.Name = *p.Name
	}
	if p.Date != nil {
		spot.Date = *p.Date
	}
	if p.StartTime != nil {
		spot.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		spot.EndTime = *p.EndTime
	}
	if p.Cost != nil {
		spot.Cost = *p.Cost
	}
	if p.Memo != nil {
		spot.Memo = *p.Memo
	}
	f.spots[spotID] = spot
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, spot)
}

func (f *FakeUpstream) deleteSpot(w http.ResponseWriter, r *http.Request) {
	spotID, _ := strconv.Atoi(chi.URLParam(r, "spotID"))

	f.mu.Lock()
	_, ok := f.spots[spotID]
	delete(f.spots, spotID)
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users ------------------------------------------------------------------

func (f *FakeUpstream) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User domain.CreateUserParams `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	u := domain.User{
		ID:       f.nextID,
		UID:      req.User.UID,
		Name:     req.User.Name,
		IconPath: req.User.IconPath,
	}
	f.nextID++
	f.users[u.UID] = u
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, u)
}

func (f *FakeUpstream) getUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	u, ok := f.users[chi.URLParam(r, "uid")]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (f *FakeUpstream) updateUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req struct {
		User domain.UserPatch `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	u, ok := f.users[uid]
	if !ok {
		f.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	p := req.User
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.IconPath != nil {
		u.IconPath = *p.IconPath
	}
	if p.RequestCount != nil {
		u.RequestCount = *p.RequestCount
	}
	if p.LastResetDate != nil {
		u.LastResetDate = *p.LastResetDate
	}
	if p.LastLoginTime != nil {
		u.LastLoginTime = *p.LastLoginTime
	}
	f.users[uid] = u
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func (f *FakeUpstream) deleteUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	_, ok := f.users[chi.URLParam(r, "uid")]
	delete(f.users, chi.URLParam(r, "uid"))
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
