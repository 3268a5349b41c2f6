package services

import (
	"context"
	"fmt"
	"time"

	"tabiji/internal/models/db_models"
	"tabiji/internal/models/response_models"
	"tabiji/internal/repositories"
	"tabiji/pkg/utils"
)

type POIServiceInterface interface {
	GetPOIById(ctx context.Context, id string) (*response_models.POI, error)
	List(ctx context.Context, city string, page, pageSize int) ([]response_models.POI, error)
}

type POIService struct {
	repo repositories.POIRepository
}

func NewPOIService(repo repositories.POIRepository) POIServiceInterface {
	return &POIService{repo: repo}
}

func (s *POIService) GetPOIById(ctx context.Context, id string) (*response_models.POI, error) {
	if id == "" {
		return nil, utils.ErrInvalidInput
	}

	poi, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if poi == nil {
		return nil, utils.ErrPOINotFound
	}

	resp := toResponsePOI(poi)
	return &resp, nil
}

func (s *POIService) List(ctx context.Context, city string, page, pageSize int) ([]response_models.POI, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	rows, err := s.repo.List(ctx, city, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.POI, 0, len(rows))
	for i := range rows {
		out = append(out, toResponsePOI(&rows[i]))
	}
	return out, nil
}

func toResponsePOI(row *db_models.POI) response_models.POI {
	resp := response_models.POI{
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
		Latitude:        row.Latitude,
		Longitude:       row.Longitude,
		DurationMinutes: row.DurationMinutes,
		BestTimeOfDay:   row.BestTimeOfDay,
		Description:     row.Description,
		SourceURL:       row.SourceURL,
	}
	if !row.LastUpdatedTS.IsZero() {
		resp.LastUpdatedTS = row.LastUpdatedTS.Format(time.RFC3339)
	}
	return resp
}
