package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/upload"
)

// TripAPI defines the trip operations the session and service layers depend
// on. The service layer depends on this interface, not the concrete Client,
// which allows it to be unit-tested with a mock.
type TripAPI interface {
	// GetTrips returns every trip owned by uid, in creation order.
	GetTrips(ctx context.Context, idToken, uid string) ([]domain.Trip, error)

	// GetTrip retrieves a single trip by its numeric id.
	// Returns domain.ErrNotFound if no trip with that id exists.
	GetTrip(ctx context.Context, idToken string, id int) (domain.Trip, error)

	// GetTripByToken retrieves a public trip by its share token without
	// authentication. Returns domain.ErrNotFound for unknown or private trips.
	GetTripByToken(ctx context.Context, token string) (domain.Trip, error)

	// CreateTrip persists a new trip and returns the server-confirmed record
	// (with id, trip_token, and timestamps assigned).
	CreateTrip(ctx context.Context, idToken string, params domain.CreateTripParams) (domain.Trip, error)

	// UpdateTrip applies a partial update. When image is non-nil it is
	// uploaded to object storage first and the resulting URL is attached to
	// the patch as image_path; upload and update are sequenced, never
	// parallel, so a failed upload aborts the record update.
	UpdateTrip(ctx context.Context, idToken, uid string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error)

	// DeleteTrip removes a trip by id. Spots cascade upstream.
	DeleteTrip(ctx context.Context, idToken string, id int) error

	// DeleteTripDate removes a single day (and its spots) from a multi-day
	// trip and returns the server-confirmed shrunken trip.
	DeleteTripDate(ctx context.Context, idToken string, id int, date string) (domain.Trip, error)

	// CopyTrip duplicates a trip and returns the copy, which carries a new
	// id and a new share token, fields otherwise duplicated.
	CopyTrip(ctx context.Context, idToken string, id int) (domain.Trip, error)
}

// tripRequest nests the payload under the root key the upstream API expects.
type tripRequest[T any] struct {
	Trip T `json:"trip"`
}

// GetTrips lists all trips owned by uid.
func (c *Client) GetTrips(ctx context.Context, idToken, uid string) ([]domain.Trip, error) {
	var trips []domain.Trip
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(uid)+"/trips", idToken, nil, &trips)
	if err != nil {
		return nil, translate("apiclient.Client.GetTrips", err, domain.ErrTripFetch)
	}
	return trips, nil
}

// GetTrip retrieves a trip by numeric id.
func (c *Client) GetTrip(ctx context.Context, idToken string, id int) (domain.Trip, error) {
	var t domain.Trip
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trips/%d", id), idToken, nil, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.GetTrip", err, domain.ErrTripFetch)
	}
	return t, nil
}

// GetTripByToken retrieves a public trip by its share token.
func (c *Client) GetTripByToken(ctx context.Context, token string) (domain.Trip, error) {
	var t domain.Trip
	err := c.do(ctx, http.MethodGet, "/trips/token/"+url.PathEscape(token), "", nil, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.GetTripByToken", err, domain.ErrTripFetch)
	}
	return t, nil
}

// CreateTrip persists a new trip.
func (c *Client) CreateTrip(ctx context.Context, idToken string, params domain.CreateTripParams) (domain.Trip, error) {
	var t domain.Trip
	err := c.do(ctx, http.MethodPost, "/trips", idToken, tripRequest[domain.CreateTripParams]{Trip: params}, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.CreateTrip", err, domain.ErrTripCreate)
	}
	return t, nil
}

// UpdateTrip applies a partial update, uploading the image first when present.
func (c *Client) UpdateTrip(ctx context.Context, idToken, uid string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error) {
	if image != nil {
		if c.uploader == nil {
			return domain.Trip{}, translate("apiclient.Client.UpdateTrip", errNoUploader, domain.ErrTripUpdate)
		}
		imageURL, err := c.uploader.Upload(ctx, *image, upload.TripImageKey(uid, *image))
		if err != nil {
			return domain.Trip{}, fmt.Errorf("apiclient.Client.UpdateTrip: %v: %w", err, domain.ErrTripUpdate)
		}
		patch.ImagePath = &imageURL
	}

	var t domain.Trip
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/trips/%d", id), idToken, tripRequest[domain.TripPatch]{Trip: patch}, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.UpdateTrip", err, domain.ErrTripUpdate)
	}
	return t, nil
}

// DeleteTrip removes a trip by id.
func (c *Client) DeleteTrip(ctx context.Context, idToken string, id int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/trips/%d", id), idToken, nil, nil)
	if err != nil {
		return translate("apiclient.Client.DeleteTrip", err, domain.ErrTripDelete)
	}
	return nil
}

// DeleteTripDate removes one day from a multi-day trip.
func (c *Client) DeleteTripDate(ctx context.Context, idToken string, id int, date string) (domain.Trip, error) {
	var t domain.Trip
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/trips/%d/dates/%s", id, url.PathEscape(date)), idToken, nil, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.DeleteTripDate", err, domain.ErrTripDelete)
	}
	return t, nil
}

// CopyTrip duplicates a trip server-side.
func (c *Client) CopyTrip(ctx context.Context, idToken string, id int) (domain.Trip, error) {
	var t domain.Trip
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/trips/%d/copies", id), idToken, nil, &t)
	if err != nil {
		return domain.Trip{}, translate("apiclient.Client.CopyTrip", err, domain.ErrTripCopy)
	}
	return t, nil
}

// compile-time check: Client must satisfy TripAPI.
var _ TripAPI = (*Client)(nil)
