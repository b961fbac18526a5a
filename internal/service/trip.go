// Package service contains the business logic for the trip gateway.
// Services validate inputs, orchestrate upstream API calls, and reconcile
// the session collection after confirmed mutations. No HTTP handling lives
// here — services depend on the apiclient interfaces, not the concrete
// client.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/notify"
	"github.com/hayabusatrip/gateway/internal/session"
)

// TripService implements the trip CRUD-synchronization core: every mutation
// goes upstream first and is applied to the session collection only after
// the server confirms it. A failed call leaves the collection exactly as it
// was, so the user can simply retry.
type TripService struct {
	api      apiclient.TripAPI
	notifier notify.Notifier
}

// NewTripService constructs a TripService backed by the provided API client.
func NewTripService(api apiclient.TripAPI, notifier notify.Notifier) *TripService {
	return &TripService{api: api, notifier: notifier}
}

// List returns the visible page of the user's trips for the given filter
// spec. The session is bootstrapped from the upstream API on first use.
// A change of spec resets the page index; otherwise the requested page
// (when non-nil) is honored, re-clamped against the filtered subset.
func (s *TripService) List(ctx context.Context, sess *session.Session, idToken string, spec domain.FilterSpec, page *int, pageSize int) ([]domain.Trip, domain.Pagination, error) {
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return nil, domain.Pagination{}, err
	}

	sess.SetFilter(spec)
	if page != nil {
		sess.SetPage(*page)
	}

	trips, meta := sess.VisiblePage(pageSize)
	return trips, meta, nil
}

// Get returns a single trip by id from the upstream API.
func (s *TripService) Get(ctx context.Context, idToken string, id int) (domain.Trip, error) {
	t, err := s.api.GetTrip(ctx, idToken, id)
	if err != nil {
		s.report(err)
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return t, nil
}

// GetByToken returns a public trip by its share token, unauthenticated.
func (s *TripService) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	t, err := s.api.GetTripByToken(ctx, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByToken: %w", err)
	}
	return t, nil
}

// Create validates and persists a new trip, then appends the confirmed
// record to the session collection.
func (s *TripService) Create(ctx context.Context, sess *session.Session, idToken string, params domain.CreateTripParams) (domain.Trip, error) {
	if err := validateCreateTrip(params); err != nil {
		return domain.Trip{}, err
	}
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.api.CreateTrip(ctx, idToken, params)
	if err != nil {
		s.report(err)
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	sess.ApplyCreate(created)
	return created, nil
}

// Update validates and applies a partial update, optionally with a new
// image, then replaces the confirmed record in the session collection.
// Returns domain.ErrInFlight if another mutation on the same trip id has
// not resolved yet.
func (s *TripService) Update(ctx context.Context, sess *session.Session, idToken string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error) {
	if err := validateTripPatch(patch, image); err != nil {
		return domain.Trip{}, err
	}
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return domain.Trip{}, err
	}
	if err := sess.Begin(id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	defer sess.End(id)

	updated, err := s.api.UpdateTrip(ctx, idToken, sess.UID(), id, patch, image)
	if err != nil {
		s.report(err)
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	sess.ApplyUpdate(updated)
	return updated, nil
}

// Delete removes a trip upstream, then removes it from the session
// collection. A failed call leaves the collection untouched.
func (s *TripService) Delete(ctx context.Context, sess *session.Session, idToken string, id int) error {
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return err
	}
	if err := sess.Begin(id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	defer sess.End(id)

	if err := s.api.DeleteTrip(ctx, idToken, id); err != nil {
		s.report(err)
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	sess.ApplyDelete(id)
	return nil
}

// DeleteDate removes a single day from a multi-day trip and reconciles the
// shrunken record the server returns.
func (s *TripService) DeleteDate(ctx context.Context, sess *session.Session, idToken string, id int, date string) (domain.Trip, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: invalid date", domain.ErrValidation)
	}
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return domain.Trip{}, err
	}
	if err := sess.Begin(id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.DeleteDate: %w", err)
	}
	defer sess.End(id)

	updated, err := s.api.DeleteTripDate(ctx, idToken, id, date)
	if err != nil {
		s.report(err)
		return domain.Trip{}, fmt.Errorf("service.TripService.DeleteDate: %w", err)
	}

	sess.ApplyUpdate(updated)
	return updated, nil
}

// Copy duplicates a trip upstream and appends the returned copy to the
// session collection.
func (s *TripService) Copy(ctx context.Context, sess *session.Session, idToken string, id int) (domain.Trip, error) {
	if err := s.ensureLoaded(ctx, sess, idToken); err != nil {
		return domain.Trip{}, err
	}
	if err := sess.Begin(id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: %w", err)
	}
	defer sess.End(id)

	dup, err := s.api.CopyTrip(ctx, idToken, id)
	if err != nil {
		s.report(err)
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: %w", err)
	}

	sess.ApplyCopy(dup)
	return dup, nil
}

// ensureLoaded bootstraps the session collection from the upstream API on
// first use. Subsequent calls are no-ops; the collection is kept current
// by local reconciliation, never by refetching.
func (s *TripService) ensureLoaded(ctx context.Context, sess *session.Session, idToken string) error {
	if sess.Loaded() {
		return nil
	}
	trips, err := s.api.GetTrips(ctx, idToken, sess.UID())
	if err != nil {
		s.report(err)
		return fmt.Errorf("service.TripService.ensureLoaded: %w", err)
	}
	sess.Bootstrap(trips)
	return nil
}

// report surfaces an upstream failure to the user through the
// notification sink with its fixed localized message.
func (s *TripService) report(err error) {
	s.notifier.Notify(notify.SeverityError, domain.UserMessage(err))
}

// validateCreateTrip enforces the business rules for new trips.
//   - Title must be non-empty (whitespace-only is rejected).
//   - PrefectureID must be a known destination code.
//   - Both dates must parse and startDate must not exceed endDate.
func validateCreateTrip(p domain.CreateTripParams) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !domain.ValidPrefectureID(p.PrefectureID) {
		return fmt.Errorf("%w: unknown prefecture_id", domain.ErrValidation)
	}
	start, err := time.Parse(domain.DateLayout, p.StartDate)
	if err != nil {
		return fmt.Errorf("%w: invalid start_date", domain.ErrValidation)
	}
	end, err := time.Parse(domain.DateLayout, p.EndDate)
	if err != nil {
		return fmt.Errorf("%w: invalid end_date", domain.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}

// validateTripPatch enforces the rules for partial updates before anything
// is transmitted. Cross-field date ordering is checked only when the patch
// carries both dates; a single-sided change is validated by the upstream
// API against the stored counterpart.
func validateTripPatch(p domain.TripPatch, image *domain.ImageFile) error {
	if p.IsZero() && image == nil {
		return fmt.Errorf("%w: empty update", domain.ErrValidation)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if p.PrefectureID != nil && !domain.ValidPrefectureID(*p.PrefectureID) {
		return fmt.Errorf("%w: unknown prefecture_id", domain.ErrValidation)
	}

	var start, end time.Time
	if p.StartDate != nil {
		var err error
		if start, err = time.Parse(domain.DateLayout, *p.StartDate); err != nil {
			return fmt.Errorf("%w: invalid start_date", domain.ErrValidation)
		}
	}
	if p.EndDate != nil {
		var err error
		if end, err = time.Parse(domain.DateLayout, *p.EndDate); err != nil {
			return fmt.Errorf("%w: invalid end_date", domain.ErrValidation)
		}
	}
	if p.StartDate != nil && p.EndDate != nil && end.Before(start) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
