package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiji/internal/models/request_models"
	"tabiji/internal/services"
	"tabiji/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

func (p *PlanController) CreatePlanHandler(c *gin.Context) {
	var req request_models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Days > 14 {
		utils.RespondError(c, http.StatusBadRequest, "days must be between 1 and 14")
		return
	}

	itinerary, err := p.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary created successfully")
}
