package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tabiji/internal/planner"
)

type MatrixPoint struct {
	ID  string
	Lat float64
	Lng float64
}

type MatrixEdge struct {
	DistanceMeters int
}

type DistanceMatrix map[string]map[string]MatrixEdge

// --------- In-memory cache per (mode, A, B) pair ---------

type pairKey struct {
	Mode string
	A    string // stable POI id
	B    string
}

type matrixPairCacheEntry struct {
	Edge      MatrixEdge
	ExpiresAt time.Time
}

type MatrixPairCache interface {
	Get(k pairKey) (MatrixEdge, bool)
	Set(k pairKey, v MatrixEdge, ttl time.Duration)
}

type inMemoryPairCache struct {
	mu    sync.RWMutex
	store map[pairKey]matrixPairCacheEntry
}

func NewInMemoryPairCache() MatrixPairCache {
	return &inMemoryPairCache{store: make(map[pairKey]matrixPairCacheEntry)}
}

func (c *inMemoryPairCache) Get(k pairKey) (MatrixEdge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return MatrixEdge{}, false
	}
	return it.Edge, true
}

func (c *inMemoryPairCache) Set(k pairKey, v MatrixEdge, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = matrixPairCacheEntry{Edge: v, ExpiresAt: time.Now().Add(ttl)}
}

// -------------- Distance providers ---------------

// DistanceMatrixService estimates walking/transit distances between
// scheduled stops, used to annotate map legs. It is strictly
// best-effort; planning never blocks on it.
type DistanceMatrixService interface {
	ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error)
}

// HaversineMatrixService is the zero-dependency fallback: great-circle
// distance only, no network.
type HaversineMatrixService struct{}

func NewHaversineMatrixService() *HaversineMatrixService {
	return &HaversineMatrixService{}
}

func (h *HaversineMatrixService) ComputeDistances(_ context.Context, points []MatrixPoint) (DistanceMatrix, error) {
	mat := make(DistanceMatrix, len(points))
	for _, a := range points {
		mat[a.ID] = make(map[string]MatrixEdge, len(points))
		for _, b := range points {
			if a.ID == b.ID {
				mat[a.ID][b.ID] = MatrixEdge{DistanceMeters: 0}
				continue
			}
			km := planner.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
			mat[a.ID][b.ID] = MatrixEdge{DistanceMeters: int(km*1000 + 0.5)}
		}
	}
	return mat, nil
}

// MapboxMatrixClient asks the Mapbox Directions-Matrix API for real
// distances, caching pairs so repeated requests over the same catalog
// stay cheap. Any failure degrades to haversine.
type MapboxMatrixClient struct {
	HTTP        *http.Client
	AccessToken string
	Cache       MatrixPairCache
	DefaultTTL  time.Duration
	Profile     string // "walking"
	Fallback    DistanceMatrixService
}

func NewMapboxMatrixClient(token string, cache MatrixPairCache) *MapboxMatrixClient {
	return &MapboxMatrixClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		AccessToken: token,
		Cache:       cache,
		DefaultTTL:  7 * 24 * time.Hour,
		Profile:     "walking",
		Fallback:    NewHaversineMatrixService(),
	}
}

func (c *MapboxMatrixClient) ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error) {
	n := len(points)
	if n == 0 {
		return DistanceMatrix{}, nil
	}

	mode := c.Profile
	mat := make(DistanceMatrix, n)
	needCall := false

	for _, p := range points {
		mat[p.ID] = make(map[string]MatrixEdge, n)
	}

	// 1) serve from cache where possible
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				mat[points[i].ID][points[j].ID] = MatrixEdge{DistanceMeters: 0}
				continue
			}
			k := pairKey{Mode: mode, A: points[i].ID, B: points[j].ID}
			if v, ok := c.Cache.Get(k); ok {
				mat[points[i].ID][points[j].ID] = v
			} else {
				needCall = true
			}
		}
	}

	if !needCall {
		return mat, nil
	}

	// 2) one matrix call for the whole point set
	coords := make([]string, 0, n)
	for _, p := range points {
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lng, p.Lat))
	}
	coordStr := strings.Join(coords, ";")

	u := url.URL{
		Scheme: "https",
		Host:   "api.mapbox.com",
		Path:   fmt.Sprintf("/directions-matrix/v1/mapbox/%s/%s", mode, coordStr),
	}
	q := url.Values{}
	q.Set("annotations", "distance")
	q.Set("sources", "all")
	q.Set("destinations", "all")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return c.Fallback.ComputeDistances(ctx, points)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return c.Fallback.ComputeDistances(ctx, points)
	}

	var payload struct {
		Distances [][]*float64 `json:"distances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.Fallback.ComputeDistances(ctx, points)
	}

	// 3) fill matrix + cache
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				mat[points[i].ID][points[j].ID] = MatrixEdge{DistanceMeters: 0}
				continue
			}
			dM := 0
			if payload.Distances != nil && i < len(payload.Distances) && j < len(payload.Distances[i]) && payload.Distances[i][j] != nil {
				dM = int(*payload.Distances[i][j] + 0.5)
			}
			edge := MatrixEdge{DistanceMeters: dM}
			mat[points[i].ID][points[j].ID] = edge
			c.Cache.Set(pairKey{Mode: mode, A: points[i].ID, B: points[j].ID}, edge, c.DefaultTTL)
		}
	}

	return mat, nil
}
