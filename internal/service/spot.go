package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/notify"
)

// SpotService implements business logic for itinerary spots. It holds the
// trip API as well because creating or moving a spot requires verifying
// the date falls within the owning trip's range.
type SpotService struct {
	spots    apiclient.SpotAPI
	trips    apiclient.TripAPI
	notifier notify.Notifier
}

// NewSpotService constructs a SpotService backed by the provided API clients.
func NewSpotService(spots apiclient.SpotAPI, trips apiclient.TripAPI, notifier notify.Notifier) *SpotService {
	return &SpotService{spots: spots, trips: trips, notifier: notifier}
}

// List returns all spots of a trip. Always returns a non-nil slice so
// callers can safely range over it.
func (s *SpotService) List(ctx context.Context, idToken string, tripID int) ([]domain.Spot, error) {
	spots, err := s.spots.GetSpots(ctx, idToken, tripID)
	if err != nil {
		s.report(err)
		return nil, fmt.Errorf("service.SpotService.List: %w", err)
	}
	if spots == nil {
		return []domain.Spot{}, nil
	}
	return spots, nil
}

// Create validates the spot against its owning trip, then persists it.
// Returns domain.ErrNotFound if the owning trip does not exist and
// domain.ErrValidation if input violates business rules.
func (s *SpotService) Create(ctx context.Context, idToken string, params domain.CreateSpotParams) (domain.Spot, error) {
	trip, err := s.trips.GetTrip(ctx, idToken, params.TripID)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Create: %w", err)
	}
	if err := validateSpot(params, trip); err != nil {
		return domain.Spot{}, err
	}

	created, err := s.spots.CreateSpot(ctx, idToken, params)
	if err != nil {
		s.report(err)
		return domain.Spot{}, fmt.Errorf("service.SpotService.Create: %w", err)
	}
	return created, nil
}

// Update validates and applies a partial update to a spot.
func (s *SpotService) Update(ctx context.Context, idToken string, tripID, spotID int, patch domain.SpotPatch) (domain.Spot, error) {
	if err := s.validateSpotPatch(ctx, idToken, tripID, patch); err != nil {
		return domain.Spot{}, err
	}

	updated, err := s.spots.UpdateSpot(ctx, idToken, tripID, spotID, patch)
	if err != nil {
		s.report(err)
		return domain.Spot{}, fmt.Errorf("service.SpotService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a spot by id, scoped to its trip.
func (s *SpotService) Delete(ctx context.Context, idToken string, tripID, spotID int) error {
	if err := s.spots.DeleteSpot(ctx, idToken, tripID, spotID); err != nil {
		s.report(err)
		return fmt.Errorf("service.SpotService.Delete: %w", err)
	}
	return nil
}

func (s *SpotService) report(err error) {
	s.notifier.Notify(notify.SeverityError, domain.UserMessage(err))
}

// validateSpot enforces the business rules for new spots.
//   - Category must be one of the known kinds.
//   - Name must be non-empty.
//   - Date must parse and fall within the owning trip's range (inclusive).
//   - EndTime must not be before StartTime.
//   - Cost must be non-negative.
func validateSpot(p domain.CreateSpotParams, trip domain.Trip) error {
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category", domain.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := validateSpotDate(p.Date, trip); err != nil {
		return err
	}
	if err := validateSpotTimes(p.StartTime, p.EndTime); err != nil {
		return err
	}
	if p.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	return nil
}

// validateSpotPatch checks the fields a partial update carries. The owning
// trip is fetched only when the patch moves the spot to another date.
func (s *SpotService) validateSpotPatch(ctx context.Context, idToken string, tripID int, p domain.SpotPatch) error {
	if p.IsZero() {
		return fmt.Errorf("%w: empty update", domain.ErrValidation)
	}
	if p.Category != nil && !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category", domain.ErrValidation)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if p.Cost != nil && *p.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if p.StartTime != nil && p.EndTime != nil {
		if err := validateSpotTimes(*p.StartTime, *p.EndTime); err != nil {
			return err
		}
	}
	if p.Date != nil {
		trip, err := s.trips.GetTrip(ctx, idToken, tripID)
		if err != nil {
			return fmt.Errorf("service.SpotService.validateSpotPatch: %w", err)
		}
		if err := validateSpotDate(*p.Date, trip); err != nil {
			return err
		}
	}
	return nil
}

func validateSpotDate(date string, trip domain.Trip) error {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: invalid date", domain.ErrValidation)
	}
	start, err := time.Parse(domain.DateLayout, trip.StartDate)
	if err != nil {
		return fmt.Errorf("%w: trip has invalid start_date", domain.ErrValidation)
	}
	end, err := time.Parse(domain.DateLayout, trip.EndDate)
	if err != nil {
		return fmt.Errorf("%w: trip has invalid end_date", domain.ErrValidation)
	}
	if d.Before(start) || d.After(end) {
		return fmt.Errorf("%w: date must fall within the trip's range", domain.ErrValidation)
	}
	return nil
}

// validateSpotTimes compares the clock parts. Spot times share a fixed
// dummy date on the wire, so the parsed values compare directly.
func validateSpotTimes(startTime, endTime string) error {
	st, err := time.Parse(domain.TimeLayout, startTime)
	if err != nil {
		return fmt.Errorf("%w: invalid start_time", domain.ErrValidation)
	}
	et, err := time.Parse(domain.TimeLayout, endTime)
	if err != nil {
		return fmt.Errorf("%w: invalid end_time", domain.ErrValidation)
	}
	if et.Before(st) {
		return fmt.Errorf("%w: end_time must not be before start_time", domain.ErrValidation)
	}
	return nil
}
