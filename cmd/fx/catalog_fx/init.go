package catalog_fx

import (
	"context"
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tabiji/internal/api/controllers"
	"tabiji/internal/catalog"
	"tabiji/internal/repositories"
	"tabiji/internal/services"
	"tabiji/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(
		provideIndex,
		providePoiRepo,
		provideCatalogService,
		provideCatalogController,
	),
	fx.Invoke(loadInitialSnapshot),
)

func provideIndex() *catalog.Index {
	return catalog.NewIndex()
}

func providePoiRepo(db *gorm.DB) repositories.POIRepository {
	return repositories.NewPOIRepository(db)
}

func provideCatalogService(
	repo repositories.POIRepository,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	aiClient utils.AIClientInterface,
	index *catalog.Index,
) services.CatalogServiceInterface {
	return services.NewCatalogService(repo, embeddingRepo, aiClient, index)
}

func provideCatalogController(catalogService services.CatalogServiceInterface) *controllers.CatalogController {
	return controllers.NewCatalogController(catalogService)
}

// loadInitialSnapshot warms the catalog on boot so the first plan
// request does not see an empty index. A failure is logged, not fatal;
// the refresh endpoint can recover later.
func loadInitialSnapshot(lc fx.Lifecycle, catalogService services.CatalogServiceInterface) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			count, err := catalogService.Refresh(ctx)
			if err != nil {
				log.Printf("Initial catalog load failed: %v", err)
				return nil
			}
			log.Printf("Initial catalog load complete: %d POIs", count)
			return nil
		},
	})
}
