package response_models

// ItineraryItem is one scheduled stop. ApproxTimeMinutes is set for
// attractions (and other timed visits); Notes carries restaurant and
// transit annotations.
type ItineraryItem struct {
	PoiID            string `json:"poi_id"`
	Type             string `json:"type"`
	ApproxTimeMinutes int   `json:"approx_time_minutes,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type ItineraryPart struct {
	TimeOfDay string          `json:"time_of_day"` // morning | lunch | afternoon | evening | night
	Items     []ItineraryItem `json:"items"`
}

type ItineraryDay struct {
	DayNumber int             `json:"day_number"`
	Parts     []ItineraryPart `json:"parts"`
}

type MapPoint struct {
	PoiID string  `json:"poi_id"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	// Walking distance to the next point in visit order, when known.
	DistanceToNextMeters *int `json:"distance_to_next_meters,omitempty"`
}

type Itinerary struct {
	City      string         `json:"city"`
	Days      []ItineraryDay `json:"days"`
	MapPoints []MapPoint     `json:"map_points"`
	Partial   bool           `json:"partial,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}
