package planner

import (
	"fmt"
	"log"

	"tabiji/internal/catalog"
)

// The scheduler walks an explicit state machine per day:
// SelectCluster -> FillSlot(morning) -> FillSlot(lunch) ->
// FillSlot(afternoon) -> FillSlot(evening) -> NextDay, terminating when
// every requested day is filled or the candidates run out. Running out
// early yields a partial schedule, not a failure.
type schedulerState int

const (
	stateSelectCluster schedulerState = iota
	stateFillMorning
	stateFillLunch
	stateFillAfternoon
	stateFillEvening
	stateNextDay
	stateDone
)

type scheduler struct {
	clusters []GeoCluster
	prefs    Preferences
	cfg      Config

	used     map[string]bool
	day      int
	active   *GeoCluster
	current  DaySchedule
	days     []DaySchedule
	warnings []string
	partial  bool
}

// Schedule assigns clustered candidates into day/slot structures.
// Clusters are consumed in descending relevance-weighted size, one
// dominant cluster per day.
func Schedule(clusters []GeoCluster, prefs Preferences, cfg Config) ([]DaySchedule, []string, bool) {
	s := &scheduler{
		clusters: clusters,
		prefs:    prefs,
		cfg:      cfg,
		used:     make(map[string]bool),
		day:      1,
	}
	s.run()
	return s.days, s.warnings, s.partial
}

func (s *scheduler) run() {
	state := stateSelectCluster
	for state != stateDone {
		switch state {
		case stateSelectCluster:
			s.active = s.selectCluster()
			if s.active == nil {
				if s.day <= s.prefs.Days {
					s.partial = true
					s.warnings = append(s.warnings, fmt.Sprintf("candidates exhausted after day %d of %d", s.day-1, s.prefs.Days))
				}
				state = stateDone
				continue
			}
			s.current = DaySchedule{Day: s.day, ClusterKey: s.active.Key}
			state = stateFillMorning

		case stateFillMorning:
			s.current.Slots = append(s.current.Slots, s.fillActivitySlot(SlotMorning))
			state = stateFillLunch

		case stateFillLunch:
			s.current.Slots = append(s.current.Slots, s.fillRestaurantSlot(SlotLunch))
			state = stateFillAfternoon

		case stateFillAfternoon:
			s.current.Slots = append(s.current.Slots, s.fillActivitySlot(SlotAfternoon))
			state = stateFillEvening

		case stateFillEvening:
			evening := s.fillActivitySlot(SlotEvening)
			if !s.dayHasRestaurant() {
				if item, ok := s.pickRestaurant(); ok {
					evening.Items = append(evening.Items, item)
				}
			}
			s.current.Slots = append(s.current.Slots, evening)
			state = stateNextDay

		case stateNextDay:
			if s.dayIsEmpty() {
				// nothing schedulable was left; do not emit an empty day
				s.partial = true
				s.warnings = append(s.warnings, fmt.Sprintf("candidates exhausted after day %d of %d", s.day-1, s.prefs.Days))
				state = stateDone
				continue
			}
			if !s.dayHasRestaurant() {
				s.warnings = append(s.warnings, fmt.Sprintf("day %d has no restaurant recommendation", s.day))
			}
			s.days = append(s.days, s.current)
			s.day++
			if s.day > s.prefs.Days {
				state = stateDone
				continue
			}
			state = stateSelectCluster
		}
	}
}

// selectCluster returns the best-ranked cluster that still has unused
// candidates; clusters were pre-sorted by relevance-weighted size.
func (s *scheduler) selectCluster() *GeoCluster {
	for i := range s.clusters {
		g := &s.clusters[i]
		if len(s.unused(g, anyType)) > 0 {
			return g
		}
	}
	return nil
}

func anyType(*catalog.POI) bool { return true }

func isActivity(p *catalog.POI) bool {
	return p.Type == catalog.TypeAttraction || p.Type == catalog.TypeShop || p.Type == catalog.TypeEventVenue
}

func isRestaurant(p *catalog.POI) bool {
	return p.Type == catalog.TypeRestaurant
}

func (s *scheduler) unused(g *GeoCluster, match func(*catalog.POI) bool) CandidateSet {
	var out CandidateSet
	for _, m := range g.Members {
		if !s.used[m.POI.ID] && match(m.POI) {
			out = append(out, m)
		}
	}
	return out
}

func slotTimeMatches(slot, bestTime string) bool {
	switch slot {
	case SlotEvening:
		return bestTime == SlotEvening || bestTime == SlotNight
	default:
		return bestTime == slot
	}
}

// fillActivitySlot packs attractions greedily by descending score under
// the slot's minute budget. Time-of-day matches are always considered
// first; mismatched POIs only ever take what the matching ones left.
func (s *scheduler) fillActivitySlot(slot string) ScheduleSlot {
	out := ScheduleSlot{TimeOfDay: slot}
	budget := s.cfg.slotBudget(slot)

	var matching, mismatched CandidateSet
	for _, c := range s.unused(s.active, isActivity) {
		if c.POI.BestTimeOfDay == "" || slotTimeMatches(slot, c.POI.BestTimeOfDay) {
			matching = append(matching, c)
		} else {
			mismatched = append(mismatched, c)
		}
	}
	matching.SortCanonical()
	mismatched.SortCanonical()

	for _, c := range append(matching, mismatched...) {
		if len(out.Items) >= s.cfg.MaxItemsPerSlot {
			break
		}
		d := s.cfg.durationOf(c.POI)
		if out.MinutesUsed+d > budget {
			continue
		}
		s.used[c.POI.ID] = true
		out.Items = append(out.Items, SlotItem{
			POI:        c.POI,
			Minutes:    d,
			ClusterKey: s.active.Key,
		})
		out.MinutesUsed += d
	}
	return out
}

func (s *scheduler) fillRestaurantSlot(slot string) ScheduleSlot {
	out := ScheduleSlot{TimeOfDay: slot}
	if item, ok := s.pickRestaurant(); ok {
		out.Items = append(out.Items, item)
	}
	return out
}

// pickRestaurant prefers the active cluster; pulling from an adjacent
// cluster is allowed but always carries an explicit transit note.
func (s *scheduler) pickRestaurant() (SlotItem, bool) {
	local := s.unused(s.active, isRestaurant)
	local.SortCanonical()
	if len(local) > 0 {
		c := local[0]
		s.used[c.POI.ID] = true
		return SlotItem{POI: c.POI, ClusterKey: s.active.Key}, true
	}

	withRestaurants := s.clustersWithUnusedRestaurants()
	adjacent := NearestCluster(s.active, withRestaurants, s.active.Key, s.prefs)
	if adjacent == nil {
		return SlotItem{}, false
	}

	remote := s.unused(adjacent, isRestaurant)
	remote.SortCanonical()
	c := remote[0]
	s.used[c.POI.ID] = true

	note := "transit to adjacent area required"
	if s.active.HasCentroid && adjacent.HasCentroid {
		d := HaversineKm(s.active.CentroidLat, s.active.CentroidLon, adjacent.CentroidLat, adjacent.CentroidLon)
		note = fmt.Sprintf("transit ~%.1f km to adjacent area", d)
	}
	log.Printf("Scheduler: day %d pulls restaurant %s from adjacent cluster %s", s.day, c.POI.ID, adjacent.Key)

	return SlotItem{POI: c.POI, ClusterKey: adjacent.Key, TransitNote: note}, true
}

func (s *scheduler) clustersWithUnusedRestaurants() []GeoCluster {
	var out []GeoCluster
	for i := range s.clusters {
		g := &s.clusters[i]
		if g.Key == s.active.Key {
			continue
		}
		if len(s.unused(g, isRestaurant)) > 0 {
			out = append(out, *g)
		}
	}
	return out
}

func (s *scheduler) dayHasRestaurant() bool {
	for _, slot := range s.current.Slots {
		for _, item := range slot.Items {
			if isRestaurant(item.POI) {
				return true
			}
		}
	}
	return false
}

func (s *scheduler) dayIsEmpty() bool {
	for _, slot := range s.current.Slots {
		if len(slot.Items) > 0 {
			return false
		}
	}
	return true
}
