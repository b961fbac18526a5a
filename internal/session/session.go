// Package session owns the per-user in-memory trip collection and its view
// state (filter spec, page index). The collection is populated once from
// the upstream API and thereafter reconciled locally after each confirmed
// mutation, so the displayed collection never diverges from a state the
// server has confirmed: a failed mutation leaves it untouched.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// Session is the session-scoped client state for one authenticated user.
// All methods are safe for concurrent use; the mutex serializes the
// reconciler against view reads.
type Session struct {
	id  string
	uid string

	mu       sync.Mutex
	loaded   bool
	trips    []domain.Trip
	filter   domain.FilterSpec
	page     int
	inflight map[int]struct{}
}

// New creates an empty, unloaded session for uid.
func New(uid string) *Session {
	return &Session{
		id:       uuid.NewString(),
		uid:      uid,
		inflight: make(map[int]struct{}),
	}
}

// ID returns the server-minted session identifier, used in logs only.
func (s *Session) ID() string { return s.id }

// UID returns the authenticated subject the session belongs to.
func (s *Session) UID() string { return s.uid }

// Loaded reports whether the collection has been bootstrapped.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Bootstrap installs the initial collection fetched from the upstream API
// and resets the view to page zero.
func (s *Session) Bootstrap(trips []domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = append([]domain.Trip(nil), trips...)
	s.loaded = true
	s.page = 0
}

// Trips returns a snapshot of the raw collection in creation order.
func (s *Session) Trips() []domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Trip(nil), s.trips...)
}

// SetFilter installs a new filter specification. Any change of spec,
// even to one with an equivalent-size result, resets the page index to
// zero so a stale index can never point past the end of the new subset.
func (s *Session) SetFilter(spec domain.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec != s.filter {
		s.filter = spec
		s.page = 0
	}
}

// Filter returns the current filter specification.
func (s *Session) Filter() domain.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetPage records the requested zero-based page index. The index is
// re-clamped against the actual page count on the next VisiblePage call.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 0 {
		page = 0
	}
	s.page = page
}

// VisiblePage computes the current view: the raw collection filtered,
// reversed to newest-first, and sliced to the current page. The stored
// page index is re-clamped into the valid range whenever the underlying
// subset has shrunk beneath it.
func (s *Session) VisiblePage(pageSize int) ([]domain.Trip, domain.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filter.Apply(s.trips)
	s.page = domain.ClampPage(s.page, domain.TotalPages(len(filtered), pageSize))
	page, totalPages := domain.Paginate(filtered, s.page, pageSize)

	return page, domain.Pagination{
		Page:       s.page,
		PageSize:   pageSize,
		TotalItems: len(filtered),
		TotalPages: totalPages,
	}
}

// Begin marks a mutation on trip id as in flight. It returns
// domain.ErrInFlight when the id already has an unresolved mutation,
// keeping at most one in-flight mutation per trip id.
func (s *Session) Begin(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return domain.ErrInFlight
	}
	s.inflight[id] = struct{}{}
	return nil
}

// End clears the in-flight mark for trip id, whether the mutation
// succeeded or failed.
func (s *Session) End(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

// ApplyCreate appends a server-confirmed new trip to the collection.
func (s *Session) ApplyCreate(t domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.filter.Apply(s.trips))
	s.trips = append(s.trips, t)
	s.resetPageIfChanged(before)
}

// ApplyUpdate replaces the trip with the same id in place; the relative
// order of the other trips is unaffected. Unknown ids are ignored, which
// makes a late confirmation for an already-removed trip a no-op.
func (s *Session) ApplyUpdate(t domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.filter.Apply(s.trips))
	for i := range s.trips {
		if s.trips[i].ID == t.ID {
			s.trips[i] = t
			break
		}
	}
	s.resetPageIfChanged(before)
}

// ApplyDelete removes the trip with the given id, if present.
func (s *Session) ApplyDelete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.filter.Apply(s.trips))
	for i := range s.trips {
		if s.trips[i].ID == id {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			break
		}
	}
	s.resetPageIfChanged(before)
}

// ApplyCopy appends a server-confirmed copy to the collection. The copy
// carries a new id and share token, so it reconciles exactly like a create.
func (s *Session) ApplyCopy(t domain.Trip) {
	s.ApplyCreate(t)
}

// resetPageIfChanged resets the page index to zero when a reconciliation
// changed the size of the filtered subset. Callers must hold s.mu.
func (s *Session) resetPageIfChanged(before int) {
	if len(s.filter.Apply(s.trips)) != before {
		s.page = 0
	}
}
