package domain

// TimeLayout is the wire format for spot start/end times. The upstream API
// stores times on a fixed dummy date; only the clock part is meaningful.
const TimeLayout = "2006-01-02T15:04:05.000-07:00"

// SpotCategory is the itinerary entry kind. The constants carry the wire
// values used by the upstream API.
type SpotCategory string

const (
	CategoryTransit     SpotCategory = "car"
	CategoryMeal        SpotCategory = "meal"
	CategorySightseeing SpotCategory = "sightseeing"
	CategoryLodging     SpotCategory = "stay"
	CategoryOther       SpotCategory = "other"
)

// Valid reports whether c is a known category.
func (c SpotCategory) Valid() bool {
	switch c {
	case CategoryTransit, CategoryMeal, CategorySightseeing, CategoryLodging, CategoryOther:
		return true
	}
	return false
}

// Spot represents a single itinerary entry belonging to one trip and one
// date within the trip's range. Deleting a trip cascades to its spots on
// the upstream side.
type Spot struct {
	ID        int          `json:"id"`
	TripID    int          `json:"trip_id"`
	Category  SpotCategory `json:"category"`
	Name      string       `json:"name"`
	Date      string       `json:"date"` // DateLayout, within the owning trip's range
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"` // >= StartTime
	Cost      int          `json:"cost"`     // non-negative, in yen
	Memo      string       `json:"memo"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// CreateSpotParams is the field set required to create a spot.
type CreateSpotParams struct {
	TripID    int          `json:"trip_id"`
	Category  SpotCategory `json:"category"`
	Name      string       `json:"name"`
	Date      string       `json:"date"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Cost      int          `json:"cost"`
	Memo      string       `json:"memo"`
}

// SpotPatch is a partial update for a spot; nil fields are left unchanged.
type SpotPatch struct {
	Category  *SpotCategory `json:"category,omitempty"`
	Name      *string       `json:"name,omitempty"`
	Date      *string       `json:"date,omitempty"`
	StartTime *string       `json:"start_time,omitempty"`
	EndTime   *string       `json:"end_time,omitempty"`
	Cost      *int          `json:"cost,omitempty"`
	Memo      *string       `json:"memo,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p SpotPatch) IsZero() bool {
	return p.Category == nil && p.Name == nil && p.Date == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Cost == nil && p.Memo == nil
}
