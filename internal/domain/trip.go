// Package domain contains the core data types for the trip-plan sharing
// gateway. This package has zero external dependencies and is imported by
// every other internal package (apiclient, session, service, handler).
package domain

// DateLayout is the wire format for trip and spot dates ("2023-07-01").
const DateLayout = "2006-01-02"

// Trip represents a single travel plan as stored by the upstream API.
// ID and TripToken are server-assigned; TripToken is the immutable share
// token used in public trip URLs, distinct from the numeric ID.
type Trip struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	PrefectureID int    `json:"prefecture_id"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"` // DateLayout, inclusive
	EndDate      string `json:"end_date"`   // DateLayout, inclusive, >= StartDate
	Memo         string `json:"memo"`
	ImagePath    string `json:"image_path"` // "" when no image is attached
	IsPublic     bool   `json:"is_public"`
	TripToken    string `json:"trip_token"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CreateTripParams is the field set required to create a trip.
type CreateTripParams struct {
	UserID       int    `json:"user_id"`
	PrefectureID int    `json:"prefecture_id"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// TripPatch is a partial update for a trip. All fields are optional by
// design; nil fields are omitted from the request body and left unchanged
// by the upstream API.
type TripPatch struct {
	PrefectureID *int    `json:"prefecture_id,omitempty"`
	Title        *string `json:"title,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Memo         *string `json:"memo,omitempty"`
	ImagePath    *string `json:"image_path,omitempty"`
	IsPublic     *bool   `json:"is_public,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p TripPatch) IsZero() bool {
	return p.PrefectureID == nil && p.Title == nil && p.StartDate == nil &&
		p.EndDate == nil && p.Memo == nil && p.ImagePath == nil && p.IsPublic == nil
}

// Prefecture codes are the 47 Japanese prefectures in JIS order plus a
// sentinel for trips abroad.
const (
	PrefectureMin      = 1  // Hokkaido
	PrefectureOverseas = 48 // 海外
)

// ValidPrefectureID reports whether id is a known destination code.
func ValidPrefectureID(id int) bool {
	return id >= PrefectureMin && id <= PrefectureOverseas
}

// ImageFile is an in-memory image attachment uploaded alongside a trip or
// user update. ContentType carries the MIME type (e.g. "image/png") from
// which the object key extension is derived.
type ImageFile struct {
	ContentType string
	Data        []byte
}
