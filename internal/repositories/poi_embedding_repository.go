package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"tabiji/internal/models/db_models"
)

// IPoiEmbeddingRepository is the external-retriever contract: given a
// query vector it returns scored candidate references. The scheduler
// never talks to it directly; the plan service does.
type IPoiEmbeddingRepository interface {
	GetCandidatesByVector(ctx context.Context, vector pgvector.Vector, city string, minSimilarity float64, limit int) ([]db_models.PoiEmbedding, error)
	CreatePoiEmbedding(ctx context.Context, embedding db_models.PoiEmbedding) error
}

type poiEmbeddingRepository struct {
	db *gorm.DB
}

func NewPoiEmbeddingRepository(db *gorm.DB) IPoiEmbeddingRepository {
	return &poiEmbeddingRepository{db: db}
}

func (p *poiEmbeddingRepository) GetCandidatesByVector(ctx context.Context, vector pgvector.Vector, city string, minSimilarity float64, limit int) ([]db_models.PoiEmbedding, error) {
	var results []db_models.PoiEmbedding

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> $1)) AS similarity
        FROM poi_embeddings
        WHERE city = $2
          AND (1 - (embedding <=> $1)) > $3
        ORDER BY embedding <=> $1, poi_id
        LIMIT $4
    `

	err := p.db.WithContext(ctx).Raw(query, vecStr, city, minSimilarity, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (p *poiEmbeddingRepository) CreatePoiEmbedding(ctx context.Context, embedding db_models.PoiEmbedding) error {
	return p.db.WithContext(ctx).Create(&embedding).Error
}
