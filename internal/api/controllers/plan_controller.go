package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yoplan/internal/models/request_models"
	"yoplan/internal/services"
	"yoplan/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// ListPlans godoc
// @Summary List active plans
// @Description Paged list sorted by price, filtered by name search and category
// @Tags Plans
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param search query string false "Name contains"
// @Param category query string false "5G, LTE or 기타"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	var req request_models.ListPlansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	plans, err := p.planService.ListPlans(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "")
}

// GetPlan godoc
// @Summary Plan detail with similar plans
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/plans/{planId} [get]
func (p *PlanController) GetPlan(c *gin.Context) {
	planID := c.Param("planId")
	if planID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is required")
		return
	}

	detail, err := p.planService.GetPlanDetail(c.Request.Context(), planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "")
}
