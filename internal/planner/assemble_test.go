package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiji/internal/catalog"
	"tabiji/pkg/utils"
)

func snapshotOf(pois ...*catalog.POI) *catalog.Snapshot {
	vals := make([]catalog.POI, 0, len(pois))
	for _, p := range pois {
		vals = append(vals, *p)
	}
	return catalog.NewSnapshot(vals)
}

func singleDay(items ...SlotItem) []DaySchedule {
	return []DaySchedule{{
		Day:        1,
		ClusterKey: "a1",
		Slots: []ScheduleSlot{{
			TimeOfDay: SlotMorning,
			Items:     items,
		}},
	}}
}

func TestAssembleRejectsUnknownPOIReference(t *testing.T) {
	known := attraction("a1", 35.71, 139.79)
	ghost := attraction("ghost", 35.71, 139.79)
	snap := snapshotOf(known)

	days := singleDay(
		SlotItem{POI: known, Minutes: 90, ClusterKey: "a1"},
		SlotItem{POI: ghost, Minutes: 90, ClusterKey: "a1"},
	)

	_, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidPOIReference)
}

func TestAssembleRejectsDuplicates(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	snap := snapshotOf(a)

	days := singleDay(
		SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"},
		SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"},
	)

	_, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	assert.ErrorIs(t, err, utils.ErrInvalidPOIReference)
}

func TestAssembleRejectsNonHalalUnderHalalRequirement(t *testing.T) {
	r := restaurant("r1", 35.71, 139.79, nil, "ramen")
	snap := snapshotOf(r)

	days := singleDay(SlotItem{POI: r, ClusterKey: "a1"})

	_, err := Assemble(snap, Preferences{City: "tokyo", HalalRequired: true}, testConfig(), days, nil, false)
	assert.ErrorIs(t, err, utils.ErrInvalidPOIReference)
}

func TestAssembleRejectsOverBudgetSlot(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	b := attraction("a2", 35.71, 139.79)
	snap := snapshotOf(a, b)

	days := singleDay(
		SlotItem{POI: a, Minutes: 120, ClusterKey: "a1"},
		SlotItem{POI: b, Minutes: 120, ClusterKey: "a1"},
	)

	_, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "over budget")
}

func TestAssembleRejectsClusterJumpWithoutTransitNote(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	b := attraction("b1", 35.60, 139.40)
	snap := snapshotOf(a, b)

	days := singleDay(
		SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"},
		SlotItem{POI: b, Minutes: 60, ClusterKey: "b1"},
	)

	_, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without transit note")
}

func TestAssembleAllowsAnnotatedClusterJump(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	r := restaurant("b1", 35.60, 139.40, nil, "sushi")
	snap := snapshotOf(a, r)

	days := singleDay(
		SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"},
		SlotItem{POI: r, ClusterKey: "b1", TransitNote: "transit ~5.0 km to adjacent area"},
	)

	out, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.NoError(t, err)
	require.Len(t, out.Days, 1)
}

func TestAssembleItemShapes(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	r := restaurant("r1", 35.711, 139.791, boolPtr(true), "ramen", "noodles")
	snap := snapshotOf(a, r)

	days := singleDay(
		SlotItem{POI: a, Minutes: 90, ClusterKey: "a1"},
		SlotItem{POI: r, ClusterKey: "a1"},
	)

	out, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.NoError(t, err)

	items := out.Days[0].Parts[0].Items
	require.Len(t, items, 2)

	assert.Equal(t, 90, items[0].ApproxTimeMinutes)
	assert.Empty(t, items[0].Notes)

	assert.Zero(t, items[1].ApproxTimeMinutes)
	assert.Equal(t, "cuisine: ramen, noodles; halal", items[1].Notes)
}

func TestAssembleMapPointsAndPlacementWarning(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	ghostLoc := attraction("a2", 0, 0)
	ghostLoc.HasCoords = false
	snap := snapshotOf(a, ghostLoc)

	days := singleDay(
		SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"},
		SlotItem{POI: ghostLoc, Minutes: 60, ClusterKey: "a1"},
	)

	out, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, nil, false)
	require.NoError(t, err)

	require.Len(t, out.MapPoints, 1)
	assert.Equal(t, "a1", out.MapPoints[0].PoiID)
	assert.Contains(t, out.Warnings, "no map placement for a2")

	// the item itself stays in the plan
	assert.Len(t, out.Days[0].Parts[0].Items, 2)
}

func TestAssemblePropagatesPartialAndWarnings(t *testing.T) {
	a := attraction("a1", 35.71, 139.79)
	snap := snapshotOf(a)

	days := singleDay(SlotItem{POI: a, Minutes: 60, ClusterKey: "a1"})
	out, err := Assemble(snap, Preferences{City: "tokyo"}, testConfig(), days, []string{"candidates exhausted after day 1 of 2"}, true)
	require.NoError(t, err)

	assert.True(t, out.Partial)
	assert.Contains(t, out.Warnings, "candidates exhausted after day 1 of 2")
	assert.Equal(t, "tokyo", out.City)
}
