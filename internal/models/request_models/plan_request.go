package request_models

type PlanPreferences struct {
	Budget             int      `json:"budget"` // 1..4, 0 = no cap
	Interests          []string `json:"interests"`
	Cuisine            []string `json:"cuisine"`
	HalalRequired      bool     `json:"halal_required"`
	ExcludedCategories []string `json:"excluded_categories"`
}

type PlanRequest struct {
	City        string          `json:"city" binding:"required"`
	Days        int             `json:"days" binding:"required,min=1"`
	Preferences PlanPreferences `json:"preferences"`
}

type UpsertPoiRequest struct {
	ID              string   `json:"id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	City            string   `json:"city" binding:"required"`
	Type            string   `json:"type" binding:"required"`
	CategoryTags    []string `json:"category_tags"`
	Neighborhood    string   `json:"neighborhood"`
	PriceRange      int      `json:"price_range"`
	Halal           *bool    `json:"halal"`
	Cuisine         []string `json:"cuisine"`
	InterestTags    []string `json:"interest_tags"`
	Latitude        *float64 `json:"lat"`
	Longitude       *float64 `json:"lon"`
	DurationMinutes int      `json:"typical_duration_minutes"`
	BestTimeOfDay   string   `json:"best_time_of_day"`
	Description     string   `json:"short_description"`
	SourceURL       string   `json:"source_url"`
	LastUpdatedTS   string   `json:"last_updated_ts"` // ISO-8601
}
