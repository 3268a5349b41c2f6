package pois_fx

import (
	"go.uber.org/fx"

	"tabiji/internal/api/controllers"
	"tabiji/internal/repositories"
	"tabiji/internal/services"
)

var Module = fx.Provide(
	providePoisService, providePoisController)

func providePoisService(poiRepo repositories.POIRepository) services.POIServiceInterface {
	return services.NewPOIService(poiRepo)
}

func providePoisController(poiService services.POIServiceInterface) *controllers.POIsController {
	return controllers.NewPOIsController(poiService)
}
