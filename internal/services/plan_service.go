package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tabiji/internal/catalog"
	"tabiji/internal/config"
	"tabiji/internal/models/request_models"
	"tabiji/internal/models/response_models"
	"tabiji/internal/planner"
	"tabiji/internal/repositories"
	"tabiji/pkg/utils"
)

type PlanServiceInterface interface {
	CreatePlan(ctx context.Context, req request_models.PlanRequest) (*response_models.Itinerary, error)
}

// PlanService glues retrieval (pgvector + optional LLM rerank) to the
// deterministic scheduling pipeline. Every non-deterministic collaborator
// sits in front of the pipeline; once the candidate set is fixed, the
// rest of the run is pure.
type PlanService struct {
	index         *catalog.Index
	pipeline      *planner.Pipeline
	embeddingRepo repositories.IPoiEmbeddingRepository
	aiClient      utils.AIClientInterface
	distance      DistanceMatrixService
	retrieval     config.RetrievalConfig
}

func NewPlanService(
	index *catalog.Index,
	pipeline *planner.Pipeline,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	aiClient utils.AIClientInterface,
	distance DistanceMatrixService,
	cfg *config.Config,
) PlanServiceInterface {
	return &PlanService{
		index:         index,
		pipeline:      pipeline,
		embeddingRepo: embeddingRepo,
		aiClient:      aiClient,
		distance:      distance,
		retrieval:     cfg.Retrieval,
	}
}

func (s *PlanService) CreatePlan(ctx context.Context, req request_models.PlanRequest) (*response_models.Itinerary, error) {
	if req.City == "" || req.Days < 1 {
		return nil, utils.ErrInvalidInput
	}

	snap, ok := s.index.Current()
	if !ok {
		return nil, utils.ErrCatalogUnavailable
	}

	prefs := planner.Preferences{
		City:               req.City,
		Days:               req.Days,
		Budget:             req.Preferences.Budget,
		Interests:          req.Preferences.Interests,
		Cuisine:            req.Preferences.Cuisine,
		HalalRequired:      req.Preferences.HalalRequired,
		ExcludedCategories: req.Preferences.ExcludedCategories,
	}

	set := s.retrieveCandidates(ctx, snap, prefs)
	set, rerankErr := s.rerank(ctx, prefs, set)
	if rerankErr != nil {
		log.Printf("Keeping retrieval order: %v", rerankErr)
	}

	itinerary, err := s.pipeline.RunOnSnapshot(ctx, snap, prefs, set)
	if err != nil {
		return nil, err
	}

	s.annotateLegDistances(ctx, itinerary)
	return itinerary, nil
}

// retrieveCandidates does a vector search over the embedding table and
// resolves the hits against the pinned snapshot. Ids the snapshot cannot
// resolve are dropped here, so nothing downstream ever holds a dangling
// reference. When the embedding provider or the vector store is down,
// the whole city catalog becomes the candidate pool, scored by interest
// overlap; requests degrade rather than fail.
func (s *PlanService) retrieveCandidates(ctx context.Context, snap *catalog.Snapshot, prefs planner.Preferences) planner.CandidateSet {
	query := retrievalQuery(prefs)

	vec, err := s.aiClient.GetEmbedding(ctx, query)
	if err != nil {
		log.Printf("Embedding lookup failed, falling back to catalog scan: %v", err)
		return s.catalogScan(snap, prefs)
	}

	rows, err := s.embeddingRepo.GetCandidatesByVector(ctx, vec, prefs.City, s.retrieval.MinSimilarity, s.retrieval.Limit)
	if err != nil {
		log.Printf("Vector search failed, falling back to catalog scan: %v", err)
		return s.catalogScan(snap, prefs)
	}
	if len(rows) == 0 {
		return s.catalogScan(snap, prefs)
	}

	set := make(planner.CandidateSet, 0, len(rows))
	for _, row := range rows {
		poi, ok := snap.Lookup(row.PoiID)
		if !ok {
			log.Printf("Retrieval returned unknown POI id %s, dropping", row.PoiID)
			continue
		}
		set = append(set, planner.Candidate{POI: poi, Score: row.Similarity})
	}
	set.SortCanonical()
	return set
}

func (s *PlanService) catalogScan(snap *catalog.Snapshot, prefs planner.Preferences) planner.CandidateSet {
	pois := snap.ByCity(prefs.City)
	set := make(planner.CandidateSet, 0, len(pois))
	for _, p := range pois {
		score := 0.5
		for _, tag := range p.InterestTags {
			for _, want := range prefs.Interests {
				if strings.EqualFold(tag, want) {
					score += 0.1
				}
			}
		}
		set = append(set, planner.Candidate{POI: p, Score: score})
	}
	set.SortCanonical()
	return set
}

// rerank asks the LLM provider to reorder the candidates. The provider
// can only permute ids it was given: unknown ids are discarded, omitted
// ids keep their retrieval order at the tail. On timeout or repeated
// failure the input set comes back unchanged alongside
// ErrRerankUnavailable, and the retrieval order stands.
func (s *PlanService) rerank(ctx context.Context, prefs planner.Preferences, set planner.CandidateSet) (planner.CandidateSet, error) {
	if len(set) < 2 {
		return set, nil
	}

	summaries := make([]utils.CandidateSummary, 0, len(set))
	for _, c := range set {
		summaries = append(summaries, utils.CandidateSummary{
			ID:          c.POI.ID,
			Name:        c.POI.Name,
			Type:        c.POI.Type,
			Description: c.POI.Description,
			Tags:        c.POI.InterestTags,
		})
	}

	query := retrievalQuery(prefs)
	timeout := time.Duration(s.retrieval.RerankTimeout) * time.Millisecond
	maxAttempts := s.retrieval.RerankRetries + 1

	var ordered []string
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		ordered, err = s.aiClient.RerankCandidates(callCtx, query, summaries)
		cancel()
		if err == nil {
			break
		}
		log.Printf("Rerank attempt %d/%d failed: %v", attempt, maxAttempts, err)
		if ctx.Err() != nil {
			return set, fmt.Errorf("%w: %v", utils.ErrRerankUnavailable, ctx.Err())
		}
		if attempt < maxAttempts {
			backoff := time.NewTimer(time.Duration(attempt) * 200 * time.Millisecond)
			select {
			case <-ctx.Done():
				backoff.Stop()
				return set, fmt.Errorf("%w: %v", utils.ErrRerankUnavailable, ctx.Err())
			case <-backoff.C:
			}
		}
	}
	if err != nil {
		return set, fmt.Errorf("%w: %v", utils.ErrRerankUnavailable, err)
	}

	return applyRerankOrder(set, ordered), nil
}

func applyRerankOrder(set planner.CandidateSet, ordered []string) planner.CandidateSet {
	byID := make(map[string]planner.Candidate, len(set))
	for _, c := range set {
		byID[c.POI.ID] = c
	}

	merged := make(planner.CandidateSet, 0, len(set))
	seen := make(map[string]bool, len(set))
	for _, id := range ordered {
		c, ok := byID[id]
		if !ok {
			log.Printf("Rerank returned unknown POI id %s, dropping", id)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, c)
	}
	for _, c := range set {
		if !seen[c.POI.ID] {
			merged = append(merged, c)
		}
	}

	// Scores are rewritten as a descending ramp so the downstream sort
	// reflects the merged order exactly.
	n := len(merged)
	for i := range merged {
		merged[i].Score = float64(n-i) / float64(n)
	}
	return merged
}

func retrievalQuery(prefs planner.Preferences) string {
	parts := []string{"trip to " + prefs.City}
	if len(prefs.Interests) > 0 {
		parts = append(parts, "interested in "+strings.Join(prefs.Interests, ", "))
	}
	if len(prefs.Cuisine) > 0 {
		parts = append(parts, "food: "+strings.Join(prefs.Cuisine, ", "))
	}
	if prefs.HalalRequired {
		parts = append(parts, "halal required")
	}
	return strings.Join(parts, "; ")
}

// annotateLegDistances decorates consecutive map points with walking
// distance. Strictly best effort; a failed matrix call leaves the
// itinerary untouched.
func (s *PlanService) annotateLegDistances(ctx context.Context, it *response_models.Itinerary) {
	if s.distance == nil || len(it.MapPoints) < 2 {
		return
	}

	points := make([]MatrixPoint, 0, len(it.MapPoints))
	for _, mp := range it.MapPoints {
		points = append(points, MatrixPoint{ID: mp.PoiID, Lat: mp.Lat, Lng: mp.Lon})
	}

	mat, err := s.distance.ComputeDistances(ctx, points)
	if err != nil {
		log.Printf("Distance matrix unavailable: %v", err)
		return
	}

	for i := 0; i+1 < len(it.MapPoints); i++ {
		from, to := it.MapPoints[i].PoiID, it.MapPoints[i+1].PoiID
		if edge, ok := mat[from][to]; ok {
			d := edge.DistanceMeters
			it.MapPoints[i].DistanceToNextMeters = &d
		}
	}
}
