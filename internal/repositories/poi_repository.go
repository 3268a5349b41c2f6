package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tabiji/internal/models/db_models"
)

type POIRepository interface {
	UpsertPoi(ctx context.Context, poi *db_models.POI) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*db_models.POI, error)
	List(ctx context.Context, city string, page, pageSize int) ([]db_models.POI, error)
	ListAll(ctx context.Context) ([]db_models.POI, error)
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

// UpsertPoi is the ingestion pipeline's landing path; ids are stable,
// so conflicts update in place.
func (r *poiRepository) UpsertPoi(ctx context.Context, poi *db_models.POI) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(poi).Error
	if err != nil {
		return fmt.Errorf("failed to upsert POI: %w", err)
	}
	return nil
}

func (r *poiRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Delete(&db_models.POI{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ────────────────────────────────────────────────────────────────
// Read helpers follow the same pattern: default value + nil error
// when no rows are found.
// ────────────────────────────────────────────────────────────────

func (r *poiRepository) GetByID(ctx context.Context, id string) (*db_models.POI, error) {
	var poi db_models.POI
	err := r.db.WithContext(ctx).First(&poi, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &poi, nil
}

func (r *poiRepository) List(ctx context.Context, city string, page, pageSize int) ([]db_models.POI, error) {
	var pois []db_models.POI
	offset := (page - 1) * pageSize

	q := r.db.WithContext(ctx).Order("id")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Offset(offset).Limit(pageSize).Find(&pois).Error; err != nil {
		return nil, err
	}
	return pois, nil
}

func (r *poiRepository) ListAll(ctx context.Context) ([]db_models.POI, error) {
	var pois []db_models.POI
	if err := r.db.WithContext(ctx).Order("id").Find(&pois).Error; err != nil {
		return nil, err
	}
	return pois, nil
}
