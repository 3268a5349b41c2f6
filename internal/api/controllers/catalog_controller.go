package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiji/internal/models/request_models"
	"tabiji/internal/services"
	"tabiji/pkg/utils"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
}

func NewCatalogController(catalogService services.CatalogServiceInterface) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// RefreshHandler rebuilds the in-memory catalog snapshot. Admin only;
// in-flight plan requests keep the snapshot they started with.
func (ct *CatalogController) RefreshHandler(c *gin.Context) {
	count, err := ct.catalogService.Refresh(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"pois_loaded": count}, "Catalog refreshed")
}

func (ct *CatalogController) UpsertPoiHandler(c *gin.Context) {
	var req request_models.UpsertPoiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ct.catalogService.UpsertPoi(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": req.ID}, "POI upserted")
}

func (ct *CatalogController) DeletePoiHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "POI ID is required")
		return
	}

	if err := ct.catalogService.DeletePoi(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": id}, "POI deleted")
}
