package planner

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two WGS84 points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// BuildClusters groups the candidate set by single-linkage: two POIs
// land in the same cluster when their distance is within the locality
// threshold, and clusters merge transitively. Candidates without
// coordinates are attached afterwards by neighborhood label, falling
// back to the tie-break order (interest match, then size, then key).
// The returned slice is ordered by relevance-weighted size descending.
func BuildClusters(set CandidateSet, prefs Preferences, cfg Config) []GeoCluster {
	var placed, unplaced CandidateSet
	for _, c := range set {
		if c.POI.HasCoords {
			placed = append(placed, c)
		} else {
			unplaced = append(unplaced, c)
		}
	}

	uf := newUnionFind(len(placed))
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			d := HaversineKm(placed[i].POI.Lat, placed[i].POI.Lon, placed[j].POI.Lat, placed[j].POI.Lon)
			if d <= cfg.LocalityThresholdKm {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int]CandidateSet)
	for i, c := range placed {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], c)
	}

	clusters := make([]GeoCluster, 0, len(byRoot))
	for _, members := range byRoot {
		clusters = append(clusters, newCluster(members))
	}

	clusters = attachUnplaced(clusters, unplaced, prefs)

	sortClustersByRelevance(clusters, prefs)
	return clusters
}

func newCluster(members CandidateSet) GeoCluster {
	members.SortCanonical()

	key := members[0].POI.ID
	var latSum, lonSum float64
	placedCount := 0
	for _, m := range members {
		if m.POI.ID < key {
			key = m.POI.ID
		}
		if m.POI.HasCoords {
			latSum += m.POI.Lat
			lonSum += m.POI.Lon
			placedCount++
		}
	}

	c := GeoCluster{Key: key, Members: members}
	if placedCount > 0 {
		c.CentroidLat = latSum / float64(placedCount)
		c.CentroidLon = lonSum / float64(placedCount)
		c.HasCentroid = true
	}
	return c
}

// attachUnplaced folds coordinate-less candidates into an existing
// cluster: same neighborhood label first, tie-break order otherwise.
// When there are no clusters at all they form one of their own.
func attachUnplaced(clusters []GeoCluster, unplaced CandidateSet, prefs Preferences) []GeoCluster {
	if len(unplaced) == 0 {
		return clusters
	}
	if len(clusters) == 0 {
		return append(clusters, newCluster(unplaced))
	}

	for _, c := range unplaced {
		var matches []*GeoCluster
		for i := range clusters {
			if c.POI.Neighborhood != "" && clusterHasNeighborhood(&clusters[i], c.POI.Neighborhood) {
				matches = append(matches, &clusters[i])
			}
		}
		target := chooseCluster(matches, prefs)
		if target == nil {
			all := make([]*GeoCluster, len(clusters))
			for i := range clusters {
				all[i] = &clusters[i]
			}
			target = chooseCluster(all, prefs)
		}
		target.Members = append(target.Members, c)
		target.Members.SortCanonical()
		if c.POI.ID < target.Key {
			target.Key = c.POI.ID
		}
	}
	return clusters
}

func clusterHasNeighborhood(g *GeoCluster, neighborhood string) bool {
	for _, m := range g.Members {
		if m.POI.Neighborhood == neighborhood {
			return true
		}
	}
	return false
}

// chooseCluster resolves boundary ties: higher aggregate interest match
// for this request wins, then the larger cluster, then the smaller key
// so replay stays byte-stable.
func chooseCluster(candidates []*GeoCluster, prefs Preferences) *GeoCluster {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, g := range candidates[1:] {
		bi, gi := best.interestScore(prefs.Interests), g.interestScore(prefs.Interests)
		switch {
		case gi > bi:
			best = g
		case gi == bi && len(g.Members) > len(best.Members):
			best = g
		case gi == bi && len(g.Members) == len(best.Members) && g.Key < best.Key:
			best = g
		}
	}
	return best
}

func sortClustersByRelevance(clusters []GeoCluster, prefs Preferences) {
	sort.SliceStable(clusters, func(i, j int) bool {
		ri, rj := clusters[i].Relevance(), clusters[j].Relevance()
		if ri != rj {
			return ri > rj
		}
		return clusters[i].Key < clusters[j].Key
	})
}

// NearestCluster picks the adjacent cluster to pull from when the
// active one runs out of restaurants. Ties on centroid distance fall
// back to the boundary tie-break.
func NearestCluster(from *GeoCluster, clusters []GeoCluster, skipKey string, prefs Preferences) *GeoCluster {
	var best []*GeoCluster
	bestDist := math.Inf(1)

	for i := range clusters {
		g := &clusters[i]
		if g.Key == skipKey {
			continue
		}
		d := math.Inf(1)
		if from.HasCentroid && g.HasCentroid {
			d = HaversineKm(from.CentroidLat, from.CentroidLon, g.CentroidLat, g.CentroidLon)
		}
		switch {
		case d < bestDist:
			bestDist = d
			best = []*GeoCluster{g}
		case d == bestDist:
			best = append(best, g)
		}
	}
	return chooseCluster(best, prefs)
}
