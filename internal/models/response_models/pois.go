package response_models

type POI struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	City            string   `json:"city"`
	Type            string   `json:"type"`
	CategoryTags    []string `json:"category_tags"`
	Neighborhood    string   `json:"neighborhood"`
	PriceRange      int      `json:"price_range,omitempty"`
	Halal           *bool    `json:"halal"`
	Cuisine         []string `json:"cuisine,omitempty"`
	InterestTags    []string `json:"interest_tags"`
	Latitude        *float64 `json:"lat"`
	Longitude       *float64 `json:"lon"`
	DurationMinutes int      `json:"typical_duration_minutes,omitempty"`
	BestTimeOfDay   string   `json:"best_time_of_day,omitempty"`
	Description     string   `json:"short_description"`
	SourceURL       string   `json:"source_url"`
	LastUpdatedTS   string   `json:"last_updated_ts"`
}
