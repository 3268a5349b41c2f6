package planner

import (
	"fmt"
	"log"

	"tabiji/internal/catalog"
	"tabiji/pkg/utils"
)

// The filter is a conjunction of tagged predicates. Relaxable ones are
// dropped in declaration order when the surviving set would otherwise be
// empty; dietary and explicit exclusions are never dropped.
type filterRule struct {
	name      string
	relaxable bool
	keep      func(Candidate, Preferences) bool
}

var filterPolicy = []filterRule{
	{
		name:      "halal",
		relaxable: false,
		keep: func(c Candidate, p Preferences) bool {
			if !p.HalalRequired || c.POI.Type != catalog.TypeRestaurant {
				return true
			}
			// unknown counts as not halal under a hard dietary constraint
			return c.POI.Halal != nil && *c.POI.Halal
		},
	},
	{
		name:      "excluded_categories",
		relaxable: false,
		keep: func(c Candidate, p Preferences) bool {
			return !containsAny(c.POI.CategoryTags, p.ExcludedCategories)
		},
	},
	{
		name:      "cuisine",
		relaxable: true,
		keep: func(c Candidate, p Preferences) bool {
			if len(p.Cuisine) == 0 || c.POI.Type != catalog.TypeRestaurant {
				return true
			}
			return overlapCount(c.POI.Cuisine, p.Cuisine) > 0
		},
	},
	{
		name:      "budget",
		relaxable: true,
		keep: func(c Candidate, p Preferences) bool {
			if p.Budget <= 0 || c.POI.PriceRange == 0 {
				return true
			}
			return c.POI.PriceRange <= p.Budget
		},
	},
}

// Filter applies the hard-constraint conjunction and the soft interest
// penalty. Interest mismatch never drops an attraction; it only lowers
// the score, which is why the relaxation ladder starts at cuisine.
func Filter(set CandidateSet, prefs Preferences, cfg Config) (CandidateSet, error) {
	relaxed := make(map[string]bool)

	for {
		out := applyRules(set, prefs, relaxed)
		if len(out) > 0 {
			out = applyInterestPenalty(out, prefs, cfg)
			out.SortCanonical()
			return out, nil
		}

		rule, ok := nextRelaxable(relaxed)
		if !ok {
			return nil, fmt.Errorf("%w: no candidates for %s", utils.ErrInsufficientCandidates, prefs.City)
		}
		log.Printf("Filter: empty result, relaxing %q constraint", rule)
		relaxed[rule] = true
	}
}

func applyRules(set CandidateSet, prefs Preferences, relaxed map[string]bool) CandidateSet {
	out := make(CandidateSet, 0, len(set))
	for _, c := range set {
		keep := true
		for _, rule := range filterPolicy {
			if relaxed[rule.name] {
				continue
			}
			if !rule.keep(c, prefs) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func nextRelaxable(relaxed map[string]bool) (string, bool) {
	for _, rule := range filterPolicy {
		if rule.relaxable && !relaxed[rule.name] {
			return rule.name, true
		}
	}
	return "", false
}

func applyInterestPenalty(set CandidateSet, prefs Preferences, cfg Config) CandidateSet {
	if len(prefs.Interests) == 0 {
		return set
	}
	out := make(CandidateSet, 0, len(set))
	for _, c := range set {
		if c.POI.Type == catalog.TypeAttraction && overlapCount(c.POI.InterestTags, prefs.Interests) == 0 {
			c.Score -= cfg.InterestMissPenalty
		}
		out = append(out, c)
	}
	return out
}
