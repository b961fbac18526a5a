package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// SpotAPI defines the spot operations the service layer depends on.
// Spots are scoped to their owning trip in every path.
type SpotAPI interface {
	// GetSpots returns all spots belonging to tripID, in creation order.
	GetSpots(ctx context.Context, idToken string, tripID int) ([]domain.Spot, error)

	// CreateSpot persists a new spot under params.TripID.
	CreateSpot(ctx context.Context, idToken string, params domain.CreateSpotParams) (domain.Spot, error)

	// UpdateSpot applies a partial update to a spot.
	UpdateSpot(ctx context.Context, idToken string, tripID, spotID int, patch domain.SpotPatch) (domain.Spot, error)

	// DeleteSpot removes a spot by id, scoped to its trip.
	DeleteSpot(ctx context.Context, idToken string, tripID, spotID int) error
}

type spotRequest[T any] struct {
	Spot T `json:"spot"`
}

// GetSpots lists the spots of a trip.
func (c *Client) GetSpots(ctx context.Context, idToken string, tripID int) ([]domain.Spot, error) {
	var spots []domain.Spot
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trips/%d/spots", tripID), idToken, nil, &spots)
	if err != nil {
		return nil, translate("apiclient.Client.GetSpots", err, domain.ErrSpotFetch)
	}
	return spots, nil
}

// CreateSpot persists a new spot.
func (c *Client) CreateSpot(ctx context.Context, idToken string, params domain.CreateSpotParams) (domain.Spot, error) {
	var s domain.Spot
	path := fmt.Sprintf("/trips/%d/spots", params.TripID)
	err := c.do(ctx, http.MethodPost, path, idToken, spotRequest[domain.CreateSpotParams]{Spot: params}, &s)
	if err != nil {
		return domain.Spot{}, translate("apiclient.Client.CreateSpot", err, domain.ErrSpotCreate)
	}
	return s, nil
}

// UpdateSpot applies a partial update.
func (c *Client) UpdateSpot(ctx context.Context, idToken string, tripID, spotID int, patch domain.SpotPatch) (domain.Spot, error) {
	var s domain.Spot
	path := fmt.Sprintf("/trips/%d/spots/%d", tripID, spotID)
	err := c.do(ctx, http.MethodPatch, path, idToken, spotRequest[domain.SpotPatch]{Spot: patch}, &s)
	if err != nil {
		return domain.Spot{}, translate("apiclient.Client.UpdateSpot", err, domain.ErrSpotUpdate)
	}
	return s, nil
}

// DeleteSpot removes a spot.
func (c *Client) DeleteSpot(ctx context.Context, idToken string, tripID, spotID int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/trips/%d/spots/%d", tripID, spotID), idToken, nil, nil)
	if err != nil {
		return translate("apiclient.Client.DeleteSpot", err, domain.ErrSpotDelete)
	}
	return nil
}

// compile-time check: Client must satisfy SpotAPI.
var _ SpotAPI = (*Client)(nil)
