package planner

import (
	"sort"
	"strings"

	"tabiji/internal/catalog"
	"tabiji/internal/config"
)

// Preferences is the request-scoped, immutable view of what the visitor
// asked for. One value per scheduling run.
type Preferences struct {
	City               string
	Days               int
	Budget             int // 1..4 ordinal cap, 0 = no cap
	Interests          []string
	Cuisine            []string
	HalalRequired      bool
	ExcludedCategories []string
}

// Candidate pairs a catalog POI with the relevance score the retriever
// (or reranker) assigned to it.
type Candidate struct {
	POI   *catalog.POI
	Score float64
}

type CandidateSet []Candidate

// SortCanonical orders by score descending, id ascending. Every stage
// re-sorts through this so identical inputs replay identically.
func (s CandidateSet) SortCanonical() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].POI.ID < s[j].POI.ID
	})
}

// GeoCluster groups candidates whose pairwise walking distance stays
// within the locality threshold. Key is the smallest member id, which
// makes cluster identity stable across runs.
type GeoCluster struct {
	Key         string
	Members     CandidateSet
	CentroidLat float64
	CentroidLon float64
	HasCentroid bool
}

// Relevance is the relevance-weighted size used to order clusters for
// day assignment.
func (g *GeoCluster) Relevance() float64 {
	var sum float64
	for _, m := range g.Members {
		sum += m.Score
	}
	return sum
}

func (g *GeoCluster) interestScore(interests []string) int {
	score := 0
	for _, m := range g.Members {
		score += overlapCount(m.POI.InterestTags, interests)
	}
	return score
}

const (
	SlotMorning   = "morning"
	SlotLunch     = "lunch"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
	SlotNight     = "night"
)

// SlotItem is one scheduled stop. Minutes is the attraction time charged
// against the slot budget (0 for restaurants). TransitNote is set when
// reaching this stop crosses cluster boundaries.
type SlotItem struct {
	POI         *catalog.POI
	Minutes     int
	ClusterKey  string
	TransitNote string
}

type ScheduleSlot struct {
	TimeOfDay   string
	Items       []SlotItem
	MinutesUsed int
}

type DaySchedule struct {
	Day        int
	ClusterKey string
	Slots      []ScheduleSlot
}

// Config carries the scheduler tunables; see config.PlannerConfig for
// the external knobs.
type Config struct {
	LocalityThresholdKm float64
	SlotBudgets         map[string]int
	DurationDefaults    map[string]int
	MaxItemsPerSlot     int
	InterestMissPenalty float64
}

func ConfigFrom(pc config.PlannerConfig) Config {
	return Config{
		LocalityThresholdKm: pc.LocalityThresholdKm,
		SlotBudgets:         pc.SlotBudgets,
		DurationDefaults:    pc.DurationDefaults,
		MaxItemsPerSlot:     pc.MaxItemsPerSlot,
		InterestMissPenalty: pc.InterestMissPenalty,
	}
}

func (c Config) slotBudget(slot string) int {
	if b, ok := c.SlotBudgets[slot]; ok {
		return b
	}
	return 120
}

// durationOf applies the defaults-by-type rule; it never invents a
// per-POI value beyond that.
func (c Config) durationOf(p *catalog.POI) int {
	if p.DurationMinutes > 0 {
		return p.DurationMinutes
	}
	if d, ok := c.DurationDefaults[p.Type]; ok && d > 0 {
		return d
	}
	return 60
}

// overlapCount folds case: catalog tags come from scraped sources and
// request tags from users, and neither side is guaranteed a canonical
// casing.
func overlapCount(tags, wanted []string) int {
	if len(tags) == 0 || len(wanted) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[strings.ToLower(w)] = struct{}{}
	}
	n := 0
	for _, t := range tags {
		if _, ok := set[strings.ToLower(t)]; ok {
			n++
		}
	}
	return n
}

func containsAny(tags, excluded []string) bool {
	return overlapCount(tags, excluded) > 0
}
