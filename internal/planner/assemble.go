package planner

import (
	"fmt"
	"strings"

	"tabiji/internal/catalog"
	"tabiji/internal/models/response_models"
	"tabiji/pkg/utils"
)

// Assemble merges the day/slot schedule into the response schema and
// runs the hallucination guard: every poi_id is re-resolved against the
// catalog snapshot and any failure is fatal. No placeholder is ever
// substituted for a broken reference.
func Assemble(snap *catalog.Snapshot, prefs Preferences, cfg Config, days []DaySchedule, warnings []string, partial bool) (*response_models.Itinerary, error) {
	out := &response_models.Itinerary{
		City:      prefs.City,
		Days:      make([]response_models.ItineraryDay, 0, len(days)),
		MapPoints: []response_models.MapPoint{},
		Partial:   partial,
		Warnings:  warnings,
	}

	seen := make(map[string]bool)
	mapped := make(map[string]bool)

	for _, day := range days {
		outDay := response_models.ItineraryDay{DayNumber: day.Day}

		for _, slot := range day.Slots {
			if err := validateSlot(snap, prefs, cfg, slot, seen); err != nil {
				return nil, err
			}

			part := response_models.ItineraryPart{TimeOfDay: slot.TimeOfDay, Items: []response_models.ItineraryItem{}}
			for _, item := range slot.Items {
				part.Items = append(part.Items, toResponseItem(item))

				if item.POI.HasCoords {
					if !mapped[item.POI.ID] {
						mapped[item.POI.ID] = true
						out.MapPoints = append(out.MapPoints, response_models.MapPoint{
							PoiID: item.POI.ID,
							Lat:   item.POI.Lat,
							Lon:   item.POI.Lon,
						})
					}
				} else {
					out.Warnings = append(out.Warnings, fmt.Sprintf("no map placement for %s", item.POI.ID))
				}
			}
			outDay.Parts = append(outDay.Parts, part)
		}

		if err := validateLocality(day); err != nil {
			return nil, err
		}
		out.Days = append(out.Days, outDay)
	}

	return out, nil
}

func toResponseItem(item SlotItem) response_models.ItineraryItem {
	ri := response_models.ItineraryItem{
		PoiID: item.POI.ID,
		Type:  item.POI.Type,
	}
	if item.POI.Type == catalog.TypeRestaurant {
		ri.Notes = restaurantNotes(item)
	} else {
		ri.ApproxTimeMinutes = item.Minutes
		ri.Notes = item.TransitNote
	}
	return ri
}

// restaurantNotes is composed from catalog data only; nothing is
// phrased that the record does not back.
func restaurantNotes(item SlotItem) string {
	var parts []string
	if item.TransitNote != "" {
		parts = append(parts, item.TransitNote)
	}
	if len(item.POI.Cuisine) > 0 {
		parts = append(parts, "cuisine: "+strings.Join(item.POI.Cuisine, ", "))
	}
	if item.POI.Halal != nil && *item.POI.Halal {
		parts = append(parts, "halal")
	}
	return strings.Join(parts, "; ")
}

func validateSlot(snap *catalog.Snapshot, prefs Preferences, cfg Config, slot ScheduleSlot, seen map[string]bool) error {
	minutes := 0
	for _, item := range slot.Items {
		if !snap.Exists(item.POI.ID) {
			return fmt.Errorf("%w: %s", utils.ErrInvalidPOIReference, item.POI.ID)
		}
		if seen[item.POI.ID] {
			return fmt.Errorf("%w: duplicate %s in itinerary", utils.ErrInvalidPOIReference, item.POI.ID)
		}
		seen[item.POI.ID] = true

		if prefs.HalalRequired && item.POI.Type == catalog.TypeRestaurant {
			if item.POI.Halal == nil || !*item.POI.Halal {
				return fmt.Errorf("%w: non-halal restaurant %s under halal requirement", utils.ErrInvalidPOIReference, item.POI.ID)
			}
		}
		minutes += item.Minutes
	}

	if budget := cfg.slotBudget(slot.TimeOfDay); minutes > budget {
		return fmt.Errorf("slot %s over budget: %d > %d minutes", slot.TimeOfDay, minutes, budget)
	}
	return nil
}

// validateLocality rejects silent cluster jumps: a day draws from one
// dominant cluster, and any item outside it must carry a transit note.
func validateLocality(day DaySchedule) error {
	for _, slot := range day.Slots {
		for _, item := range slot.Items {
			if item.ClusterKey != day.ClusterKey && item.TransitNote == "" {
				return fmt.Errorf("day %d: cluster jump to %s without transit note", day.Day, item.POI.ID)
			}
		}
	}
	return nil
}
