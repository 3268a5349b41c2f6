package planner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiji/internal/catalog"
	"tabiji/pkg/utils"
)

func tokyoCatalog() ([]catalog.POI, CandidateSet) {
	sensoji := catalog.POI{
		ID:            "sensoji",
		Name:          "Sensō-ji",
		City:          "tokyo",
		Type:          catalog.TypeAttraction,
		InterestTags:  []string{"history", "temples"},
		Neighborhood:  "asakusa",
		Lat:           35.7148,
		Lon:           139.7967,
		HasCoords:     true,
		BestTimeOfDay: SlotMorning,
	}
	halalRamen := catalog.POI{
		ID:           "halal-ramen",
		Name:         "Halal Ramen Ouka",
		City:         "tokyo",
		Type:         catalog.TypeRestaurant,
		Halal:        boolPtr(true),
		Cuisine:      []string{"ramen"},
		Neighborhood: "asakusa",
		Lat:          35.7130,
		Lon:          139.7950,
		HasCoords:    true,
	}
	porkRamen := catalog.POI{
		ID:        "pork-ramen",
		Name:      "Tonkotsu House",
		City:      "tokyo",
		Type:      catalog.TypeRestaurant,
		Halal:     boolPtr(false),
		Cuisine:   []string{"ramen"},
		Lat:       35.7135,
		Lon:       139.7955,
		HasCoords: true,
	}
	nakamise := catalog.POI{
		ID:           "nakamise",
		Name:         "Nakamise Shopping Street",
		City:         "tokyo",
		Type:         catalog.TypeShop,
		InterestTags: []string{"shopping"},
		Neighborhood: "asakusa",
		Lat:          35.7127,
		Lon:          139.7963,
		HasCoords:    true,
	}

	pois := []catalog.POI{sensoji, halalRamen, porkRamen, nakamise}

	snapRefs := make(map[string]*catalog.POI)
	snap := catalog.NewSnapshot(pois)
	for _, p := range pois {
		ref, _ := snap.Lookup(p.ID)
		snapRefs[p.ID] = ref
	}

	set := candidates(
		cand(snapRefs["sensoji"], 0.95),
		cand(snapRefs["halal-ramen"], 0.80),
		cand(snapRefs["pork-ramen"], 0.85),
		cand(snapRefs["nakamise"], 0.70),
	)
	return pois, set
}

func newTestPipeline(pois []catalog.POI) *Pipeline {
	idx := catalog.NewIndex()
	idx.Replace(catalog.NewSnapshot(pois))
	return NewPipeline(idx, testConfig())
}

func TestPipelineTokyoHalalDay(t *testing.T) {
	pois, set := tokyoCatalog()
	p := newTestPipeline(pois)

	prefs := Preferences{
		City:          "tokyo",
		Days:          1,
		Interests:     []string{"history"},
		HalalRequired: true,
	}

	out, err := p.Run(context.Background(), prefs, set)
	require.NoError(t, err)
	require.Len(t, out.Days, 1)

	morning := out.Days[0].Parts[0]
	require.Equal(t, SlotMorning, morning.TimeOfDay)
	require.NotEmpty(t, morning.Items)
	assert.Equal(t, "sensoji", morning.Items[0].PoiID)

	lunch := out.Days[0].Parts[1]
	require.Equal(t, SlotLunch, lunch.TimeOfDay)
	require.Len(t, lunch.Items, 1)
	assert.Equal(t, "halal-ramen", lunch.Items[0].PoiID)

	var mapIDs []string
	for _, mp := range out.MapPoints {
		mapIDs = append(mapIDs, mp.PoiID)
	}
	assert.Contains(t, mapIDs, "sensoji")
	assert.Contains(t, mapIDs, "halal-ramen")
	assert.NotContains(t, mapIDs, "pork-ramen")
}

func TestPipelineIdenticalInputsReplayIdentically(t *testing.T) {
	pois, _ := tokyoCatalog()
	p := newTestPipeline(pois)

	prefs := Preferences{
		City:      "tokyo",
		Days:      2,
		Interests: []string{"history", "shopping"},
	}

	run := func() []byte {
		_, set := tokyoCatalog()
		snap, ok := p.Index.Current()
		require.True(t, ok)
		// rebuild the candidate set against the pinned snapshot
		rebuilt := make(CandidateSet, 0, len(set))
		for _, c := range set {
			ref, ok := snap.Lookup(c.POI.ID)
			require.True(t, ok)
			rebuilt = append(rebuilt, Candidate{POI: ref, Score: c.Score})
		}
		out, err := p.RunOnSnapshot(context.Background(), snap, prefs, rebuilt)
		require.NoError(t, err)
		raw, err := json.Marshal(out)
		require.NoError(t, err)
		return raw
	}

	first := run()
	second := run()
	assert.Equal(t, string(first), string(second))
}

func TestPipelineCatalogUnavailableBeforeFirstLoad(t *testing.T) {
	p := NewPipeline(catalog.NewIndex(), testConfig())

	_, err := p.Run(context.Background(), Preferences{City: "tokyo", Days: 1}, nil)
	assert.ErrorIs(t, err, utils.ErrCatalogUnavailable)
}

func TestPipelineInsufficientCandidates(t *testing.T) {
	pois, _ := tokyoCatalog()
	p := newTestPipeline(pois)

	snap, ok := p.Index.Current()
	require.True(t, ok)

	// only non-halal restaurants survive retrieval under a halal
	// requirement: nothing is schedulable and nothing is invented
	ref, _ := snap.Lookup("pork-ramen")
	set := candidates(cand(ref, 0.9))

	_, err := p.RunOnSnapshot(context.Background(), snap, Preferences{City: "tokyo", Days: 1, HalalRequired: true}, set)
	assert.ErrorIs(t, err, utils.ErrInsufficientCandidates)
}

func TestPipelineHonorsCancellation(t *testing.T) {
	pois, set := tokyoCatalog()
	p := newTestPipeline(pois)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Preferences{City: "tokyo", Days: 1}, set)
	assert.ErrorIs(t, err, context.Canceled)
}
