package retrieval_fx

import (
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tabiji/internal/config"
	"tabiji/internal/repositories"
	"tabiji/internal/services"
	"tabiji/pkg/utils"
)

var Module = fx.Provide(
	provideAIClient,
	provideEmbeddingRepo,
	provideDistanceService,
)

func provideAIClient(cfg *config.Config) (utils.AIClientInterface, error) {
	r := cfg.Retrieval
	log.Printf("Initializing %s AI client with model %q", r.Provider, r.Model)
	return utils.NewAIClient(r.Provider, r.APIKey, r.Model)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.IPoiEmbeddingRepository {
	return repositories.NewPoiEmbeddingRepository(db)
}

func provideDistanceService(cfg *config.Config) services.DistanceMatrixService {
	if cfg.Retrieval.MapboxToken == "" {
		log.Println("No Mapbox token configured, using haversine distances")
		return services.NewHaversineMatrixService()
	}
	return services.NewMapboxMatrixClient(cfg.Retrieval.MapboxToken, services.NewInMemoryPairCache())
}
