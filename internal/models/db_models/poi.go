package db_models

import (
	"time"

	"github.com/lib/pq"
)

// POI is the catalog row produced by the external normalization pipeline.
// IDs are stable external strings, not generated here.
type POI struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	City            string         `gorm:"index"`
	Type            string         `gorm:"index"` // attraction | restaurant | shop | event_venue
	CategoryTags    pq.StringArray `gorm:"type:text[]"`
	Neighborhood    string
	PriceRange      int            // 1..4, 0 when unset
	Halal           *bool          // nil means unknown
	Cuisine         pq.StringArray `gorm:"type:text[]"`
	InterestTags    pq.StringArray `gorm:"type:text[]"`
	Latitude        *float64
	Longitude       *float64
	DurationMinutes int    // 0 means use the per-type default
	BestTimeOfDay   string // morning | afternoon | evening | night, "" when unset
	Description     string
	SourceURL       string
	LastUpdatedTS   time.Time

	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}
