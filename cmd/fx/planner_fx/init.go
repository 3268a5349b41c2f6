package planner_fx

import (
	"go.uber.org/fx"

	"tabiji/internal/api/controllers"
	"tabiji/internal/catalog"
	"tabiji/internal/config"
	"tabiji/internal/planner"
	"tabiji/internal/repositories"
	"tabiji/internal/services"
	"tabiji/pkg/utils"
)

var Module = fx.Provide(
	providePipeline,
	providePlanService,
	providePlanController,
)

func providePipeline(index *catalog.Index, cfg *config.Config) *planner.Pipeline {
	return planner.NewPipeline(index, planner.ConfigFrom(cfg.Planner))
}

func providePlanService(
	index *catalog.Index,
	pipeline *planner.Pipeline,
	embeddingRepo repositories.IPoiEmbeddingRepository,
	aiClient utils.AIClientInterface,
	distance services.DistanceMatrixService,
	cfg *config.Config,
) services.PlanServiceInterface {
	return services.NewPlanService(index, pipeline, embeddingRepo, aiClient, distance, cfg)
}

func providePlanController(planService services.PlanServiceInterface) *controllers.PlanController {
	return controllers.NewPlanController(planService)
}
