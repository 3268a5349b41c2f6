package catalog

import (
	"log"
	"math"
	"sort"
	"sync/atomic"
	"time"
)

const (
	TypeAttraction = "attraction"
	TypeRestaurant = "restaurant"
	TypeShop       = "shop"
	TypeEventVenue = "event_venue"
)

// POI is the read-side catalog record the scheduler works with. It is
// immutable once a snapshot is built.
type POI struct {
	ID              string
	Name            string
	City            string
	Type            string
	CategoryTags    []string
	Neighborhood    string
	PriceRange      int   // 1..4, 0 when unset
	Halal           *bool // nil means unknown
	Cuisine         []string
	InterestTags    []string
	Lat             float64
	Lon             float64
	HasCoords       bool
	DurationMinutes int
	BestTimeOfDay   string
	Description     string
	SourceURL       string
	LastUpdated     time.Time
}

type Region struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (r Region) contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// Grid cells are ~0.05 degrees per side (roughly 5 km at mid latitudes),
// coarse enough that a locality-radius query touches a handful of cells.
const cellSizeDeg = 0.05

type cellKey struct {
	X, Y int
}

func cellOf(lat, lon float64) cellKey {
	return cellKey{
		X: int(math.Floor(lon / cellSizeDeg)),
		Y: int(math.Floor(lat / cellSizeDeg)),
	}
}

// Snapshot is one consistent, immutable view of the catalog.
type Snapshot struct {
	byID    map[string]*POI
	grid    map[cellKey][]*POI
	builtAt time.Time
}

func NewSnapshot(pois []POI) *Snapshot {
	s := &Snapshot{
		byID:    make(map[string]*POI, len(pois)),
		grid:    make(map[cellKey][]*POI),
		builtAt: time.Now(),
	}

	for i := range pois {
		p := pois[i]
		if p.ID == "" {
			continue
		}
		if p.HasCoords && (p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180) {
			log.Printf("Catalog: POI %s has out-of-range coordinates (%f, %f), treating as unplaced", p.ID, p.Lat, p.Lon)
			p.HasCoords = false
		}
		if _, dup := s.byID[p.ID]; dup {
			log.Printf("Catalog: duplicate POI id %s dropped on snapshot build", p.ID)
			continue
		}
		s.byID[p.ID] = &p
		if p.HasCoords {
			k := cellOf(p.Lat, p.Lon)
			s.grid[k] = append(s.grid[k], &p)
		}
	}

	for k := range s.grid {
		cell := s.grid[k]
		sort.Slice(cell, func(i, j int) bool { return cell[i].ID < cell[j].ID })
	}
	return s
}

func (s *Snapshot) Lookup(id string) (*POI, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *Snapshot) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *Snapshot) Len() int {
	return len(s.byID)
}

func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// QueryByArea returns the POIs inside the region, ordered by id so
// callers see a stable sequence.
func (s *Snapshot) QueryByArea(r Region) []*POI {
	minCell := cellOf(r.MinLat, r.MinLon)
	maxCell := cellOf(r.MaxLat, r.MaxLon)

	var out []*POI
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for _, p := range s.grid[cellKey{X: x, Y: y}] {
				if r.contains(p.Lat, p.Lon) {
					out = append(out, p)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCity returns every POI for the city, ordered by id.
func (s *Snapshot) ByCity(city string) []*POI {
	var out []*POI
	for _, p := range s.byID {
		if p.City == city {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Index hands out the current snapshot. Refreshes swap the pointer
// atomically, so an in-flight request keeps the view it started with.
type Index struct {
	snap atomic.Pointer[Snapshot]
}

func NewIndex() *Index {
	return &Index{}
}

func (i *Index) Replace(s *Snapshot) {
	i.snap.Store(s)
}

// Current returns false until the first snapshot has been loaded.
func (i *Index) Current() (*Snapshot, bool) {
	s := i.snap.Load()
	if s == nil {
		return nil, false
	}
	return s, true
}
