package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tabiji/internal/catalog"
	"tabiji/internal/models/db_models"
	"tabiji/internal/models/request_models"
	"tabiji/internal/repositories"
	"tabiji/pkg/utils"
)

type CatalogServiceInterface interface {
	// Refresh rebuilds the in-memory snapshot from the database and
	// atomically swaps it in. Returns the number of POIs loaded.
	Refresh(ctx context.Context) (int, error)

	// UpsertPoi lands one normalized record from the ingestion pipeline
	// and (best effort) refreshes its retrieval embedding.
	UpsertPoi(ctx context.Context, req request_models.UpsertPoiRequest) error

	DeletePoi(ctx context.Context, id string) error
}

type CatalogService struct {
	repo          repositories.POIRepository
	embeddingRepo repositories.IPoiEmbeddingRepository
	aiClient      utils.AIClientInterface
	index         *catalog.Index
}

func NewCatalogService(
	repo repositories.POIRepository,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	aiClient utils.AIClientInterface,
	index *catalog.Index,
) CatalogServiceInterface {
	return &CatalogService{
		repo:          repo,
		embeddingRepo: embeddingRepo,
		aiClient:      aiClient,
		index:         index,
	}
}

func (s *CatalogService) Refresh(ctx context.Context) (int, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}

	pois := make([]catalog.POI, 0, len(rows))
	for i := range rows {
		pois = append(pois, toCatalogPOI(&rows[i]))
	}

	snap := catalog.NewSnapshot(pois)
	s.index.Replace(snap)
	log.Printf("Catalog snapshot rebuilt with %d POIs", snap.Len())
	return snap.Len(), nil
}

func (s *CatalogService) UpsertPoi(ctx context.Context, req request_models.UpsertPoiRequest) error {
	row, err := toDbPOI(req)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	if err := s.repo.UpsertPoi(ctx, row); err != nil {
		return err
	}

	// Embedding refresh is best effort; the row is already durable and a
	// later refresh pass can fill the vector in.
	if err := s.refreshEmbedding(ctx, row); err != nil {
		log.Printf("Embedding refresh failed for %s: %v", row.ID, err)
	}
	return nil
}

func (s *CatalogService) DeletePoi(ctx context.Context, id string) error {
	if id == "" {
		return utils.ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *CatalogService) refreshEmbedding(ctx context.Context, poi *db_models.POI) error {
	text := embeddingText(poi)
	vec, err := s.aiClient.GetEmbedding(ctx, text)
	if err != nil {
		return err
	}
	return s.embeddingRepo.CreatePoiEmbedding(ctx, db_models.PoiEmbedding{
		PoiID:     poi.ID,
		City:      poi.City,
		Name:      poi.Name,
		Tags:      poi.InterestTags,
		Embedding: vec,
	})
}

func embeddingText(poi *db_models.POI) string {
	parts := []string{poi.Name, poi.Type, poi.City}
	if len(poi.CategoryTags) > 0 {
		parts = append(parts, strings.Join(poi.CategoryTags, " "))
	}
	if len(poi.InterestTags) > 0 {
		parts = append(parts, strings.Join(poi.InterestTags, " "))
	}
	if len(poi.Cuisine) > 0 {
		parts = append(parts, strings.Join(poi.Cuisine, " "))
	}
	if poi.Description != "" {
		parts = append(parts, poi.Description)
	}
	return strings.Join(parts, ". ")
}

func toDbPOI(req request_models.UpsertPoiRequest) (*db_models.POI, error) {
	switch req.Type {
	case catalog.TypeAttraction, catalog.TypeRestaurant, catalog.TypeShop, catalog.TypeEventVenue:
	default:
		return nil, fmt.Errorf("unknown poi type %q", req.Type)
	}

	var updated time.Time
	if req.LastUpdatedTS != "" {
		t, err := time.Parse(time.RFC3339, req.LastUpdatedTS)
		if err != nil {
			return nil, fmt.Errorf("bad last_updated_ts %q", req.LastUpdatedTS)
		}
		updated = t
	}

	return &db_models.POI{
		ID:              req.ID,
		Name:            req.Name,
		City:            req.City,
		Type:            req.Type,
		CategoryTags:    req.CategoryTags,
		Neighborhood:    req.Neighborhood,
		PriceRange:      req.PriceRange,
		Halal:           req.Halal,
		Cuisine:         req.Cuisine,
		InterestTags:    req.InterestTags,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		DurationMinutes: req.DurationMinutes,
		BestTimeOfDay:   req.BestTimeOfDay,
		Description:     req.Description,
		SourceURL:       req.SourceURL,
		LastUpdatedTS:   updated,
	}, nil
}

func toCatalogPOI(row *db_models.POI) catalog.POI {
	p := catalog.POI{
		ID:              row.ID,
		Name:            row.Name,
		City:            row.City,
		Type:            row.Type,
		CategoryTags:    row.CategoryTags,
		Neighborhood:    row.Neighborhood,
		PriceRange:      row.PriceRange,
		Halal:           row.Halal,
		Cuisine:         row.Cuisine,
		InterestTags:    row.InterestTags,
		DurationMinutes: row.DurationMinutes,
		BestTimeOfDay:   row.BestTimeOfDay,
		Description:     row.Description,
		SourceURL:       row.SourceURL,
		LastUpdated:     row.LastUpdatedTS,
	}
	if row.Latitude != nil && row.Longitude != nil {
		p.Lat = *row.Latitude
		p.Lon = *row.Longitude
		p.HasCoords = true
	}
	return p
}
