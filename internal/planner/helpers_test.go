package planner

import (
	"tabiji/internal/catalog"
)

func testConfig() Config {
	return Config{
		LocalityThresholdKm: 3.0,
		SlotBudgets: map[string]int{
			SlotMorning:   180,
			SlotAfternoon: 180,
			SlotEvening:   120,
		},
		DurationDefaults: map[string]int{
			catalog.TypeAttraction: 90,
			catalog.TypeRestaurant: 75,
			catalog.TypeShop:       40,
			catalog.TypeEventVenue: 120,
		},
		MaxItemsPerSlot:     3,
		InterestMissPenalty: 0.25,
	}
}

func boolPtr(b bool) *bool { return &b }

func attraction(id string, lat, lon float64, interests ...string) *catalog.POI {
	return &catalog.POI{
		ID:           id,
		Name:         "poi " + id,
		City:         "tokyo",
		Type:         catalog.TypeAttraction,
		InterestTags: interests,
		Lat:          lat,
		Lon:          lon,
		HasCoords:    true,
	}
}

func restaurant(id string, lat, lon float64, halal *bool, cuisine ...string) *catalog.POI {
	return &catalog.POI{
		ID:        id,
		Name:      "poi " + id,
		City:      "tokyo",
		Type:      catalog.TypeRestaurant,
		Halal:     halal,
		Cuisine:   cuisine,
		Lat:       lat,
		Lon:       lon,
		HasCoords: true,
	}
}

func candidates(scored ...Candidate) CandidateSet {
	return CandidateSet(scored)
}

func cand(p *catalog.POI, score float64) Candidate {
	return Candidate{POI: p, Score: score}
}

func ids(set CandidateSet) []string {
	out := make([]string, 0, len(set))
	for _, c := range set {
		out = append(out, c.POI.ID)
	}
	return out
}
