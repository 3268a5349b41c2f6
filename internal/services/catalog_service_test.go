package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiji/internal/models/db_models"
	"tabiji/internal/models/request_models"
)

func TestToDbPOIValidation(t *testing.T) {
	_, err := toDbPOI(request_models.UpsertPoiRequest{
		ID: "x", Name: "X", City: "tokyo", Type: "castle",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown poi type")

	_, err = toDbPOI(request_models.UpsertPoiRequest{
		ID: "x", Name: "X", City: "tokyo", Type: "attraction",
		LastUpdatedTS: "yesterday",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad last_updated_ts")
}

func TestToDbPOIParsesTimestamp(t *testing.T) {
	row, err := toDbPOI(request_models.UpsertPoiRequest{
		ID: "sensoji", Name: "Sensō-ji", City: "tokyo", Type: "attraction",
		LastUpdatedTS: "2026-08-01T09:30:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC), row.LastUpdatedTS)
}

func TestToCatalogPOICoordinates(t *testing.T) {
	lat, lon := 35.7148, 139.7967
	withCoords := db_models.POI{ID: "a", City: "tokyo", Type: "attraction", Latitude: &lat, Longitude: &lon}
	p := toCatalogPOI(&withCoords)
	assert.True(t, p.HasCoords)
	assert.Equal(t, lat, p.Lat)
	assert.Equal(t, lon, p.Lon)

	noCoords := db_models.POI{ID: "b", City: "tokyo", Type: "attraction", Latitude: &lat}
	p = toCatalogPOI(&noCoords)
	assert.False(t, p.HasCoords)
}

func TestEmbeddingText(t *testing.T) {
	text := embeddingText(&db_models.POI{
		Name:         "Halal Ramen Ouka",
		Type:         "restaurant",
		City:         "tokyo",
		Cuisine:      []string{"ramen"},
		InterestTags: []string{"food"},
		Description:  "Halal certified ramen near Shinjuku.",
	})

	assert.Contains(t, text, "Halal Ramen Ouka")
	assert.Contains(t, text, "restaurant")
	assert.Contains(t, text, "ramen")
	assert.Contains(t, text, "Halal certified ramen near Shinjuku.")
}
