package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiji/internal/catalog"
	"tabiji/pkg/utils"
)

func TestFilterHalalDropsNonHalalAndUnknown(t *testing.T) {
	set := candidates(
		cand(restaurant("r-halal", 35.71, 139.79, boolPtr(true), "ramen"), 0.9),
		cand(restaurant("r-not", 35.71, 139.79, boolPtr(false), "ramen"), 0.95),
		cand(restaurant("r-unknown", 35.71, 139.79, nil, "ramen"), 0.99),
		cand(attraction("a1", 35.71, 139.79, "history"), 0.8),
	)
	prefs := Preferences{City: "tokyo", Days: 1, HalalRequired: true}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"r-halal", "a1"}, ids(out))
}

func TestFilterHalalNeverRelaxes(t *testing.T) {
	set := candidates(
		cand(restaurant("r-not", 35.71, 139.79, boolPtr(false), "ramen"), 0.95),
	)
	prefs := Preferences{City: "tokyo", Days: 1, HalalRequired: true}

	_, err := Filter(set, prefs, testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInsufficientCandidates)
}

func TestFilterExcludedCategoriesNeverRelax(t *testing.T) {
	nightclub := attraction("club", 35.71, 139.79)
	nightclub.CategoryTags = []string{"nightlife"}

	set := candidates(cand(nightclub, 0.99))
	prefs := Preferences{City: "tokyo", Days: 1, ExcludedCategories: []string{"nightlife"}}

	_, err := Filter(set, prefs, testConfig())
	assert.ErrorIs(t, err, utils.ErrInsufficientCandidates)
}

func TestFilterCuisineRelaxesWhenNothingMatches(t *testing.T) {
	set := candidates(
		cand(restaurant("r-sushi", 35.71, 139.79, nil, "sushi"), 0.9),
		cand(attraction("a1", 35.71, 139.79), 0.8),
	)
	prefs := Preferences{City: "tokyo", Days: 1, Cuisine: []string{"ethiopian"}}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	// no restaurant serves the requested cuisine, but the attraction
	// alone keeps the set non-empty, so cuisine still applies
	assert.Equal(t, []string{"a1"}, ids(out))
}

func TestFilterCuisineRelaxationRestoresRestaurants(t *testing.T) {
	set := candidates(
		cand(restaurant("r-sushi", 35.71, 139.79, nil, "sushi"), 0.9),
	)
	prefs := Preferences{City: "tokyo", Days: 1, Cuisine: []string{"ethiopian"}}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"r-sushi"}, ids(out))
}

func TestFilterBudget(t *testing.T) {
	cheap := attraction("cheap", 35.71, 139.79)
	cheap.PriceRange = 1
	pricey := attraction("pricey", 35.71, 139.79)
	pricey.PriceRange = 4
	unpriced := attraction("unpriced", 35.71, 139.79)

	set := candidates(cand(cheap, 0.5), cand(pricey, 0.9), cand(unpriced, 0.7))
	prefs := Preferences{City: "tokyo", Days: 1, Budget: 2}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	// POIs without a price range always pass a budget cap
	assert.Equal(t, []string{"unpriced", "cheap"}, ids(out))
}

func TestFilterInterestMismatchIsPenaltyNotDrop(t *testing.T) {
	match := attraction("match", 35.71, 139.79, "history")
	miss := attraction("miss", 35.71, 139.79, "anime")

	set := candidates(cand(match, 0.6), cand(miss, 0.7))
	prefs := Preferences{City: "tokyo", Days: 1, Interests: []string{"history"}}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	require.Len(t, out, 2)
	// 0.7 - 0.25 penalty < 0.6, so the matching attraction leads
	assert.Equal(t, "match", out[0].POI.ID)
	assert.InDelta(t, 0.45, out[1].Score, 1e-9)
}

func TestFilterInterestPenaltySkipsRestaurants(t *testing.T) {
	r := restaurant("r1", 35.71, 139.79, nil, "ramen")
	set := candidates(cand(r, 0.7))
	prefs := Preferences{City: "tokyo", Days: 1, Interests: []string{"history"}}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.7, out[0].Score, 1e-9)
}

func TestFilterCanonicalTieBreakByID(t *testing.T) {
	set := candidates(
		cand(attraction("b", 35.71, 139.79), 0.5),
		cand(attraction("a", 35.71, 139.79), 0.5),
	)
	out, err := Filter(set, Preferences{City: "tokyo", Days: 1}, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(out))
}

func TestFilterTagMatchingFoldsCase(t *testing.T) {
	a := attraction("a1", 35.71, 139.79, "History")
	r := restaurant("r1", 35.71, 139.79, nil, "Ramen")

	set := candidates(cand(a, 0.7), cand(r, 0.6))
	prefs := Preferences{
		City:      "tokyo",
		Days:      1,
		Interests: []string{"history"},
		Cuisine:   []string{"RAMEN"},
	}

	out, err := Filter(set, prefs, testConfig())
	require.NoError(t, err)
	require.Len(t, out, 2)
	// no interest penalty for the differently-cased match
	assert.InDelta(t, 0.7, out[0].Score, 1e-9)
	assert.Equal(t, []string{"a1", "r1"}, ids(out))
}

func TestFilterHalalIgnoresNonRestaurants(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	set := candidates(cand(a, 0.5))
	out, err := Filter(set, Preferences{City: "tokyo", Days: 1, HalalRequired: true}, testConfig())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, catalog.TypeAttraction, out[0].POI.Type)
}
