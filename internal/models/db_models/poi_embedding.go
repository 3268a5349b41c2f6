package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PoiEmbedding struct {
	PoiID     string `gorm:"primaryKey;column:poi_id"`
	City      string `gorm:"index"`
	Name      string
	Tags      pq.StringArray  `gorm:"type:text[]"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`

	Similarity float64 `gorm:"-"` // populated by vector queries only
}
