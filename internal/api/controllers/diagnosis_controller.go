package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"yoplan/internal/models/request_models"
	"yoplan/internal/services"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

type DiagnosisController struct {
	diagnosisService services.DiagnosisServiceInterface
}

func NewDiagnosisController(diagnosisService services.DiagnosisServiceInterface) *DiagnosisController {
	return &DiagnosisController{
		diagnosisService: diagnosisService,
	}
}

// ListQuestions godoc
// @Summary Active diagnosis questions in display order
// @Tags Diagnosis
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/diagnosis/questions [get]
func (d *DiagnosisController) ListQuestions(c *gin.Context) {
	questions, err := d.diagnosisService.ListQuestions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, questions, "")
}

// SubmitDiagnosis godoc
// @Summary Score the answers and recommend plans
// @Description Signed-in users get their account age applied and the result linked to their history
// @Tags Diagnosis
// @Accept json
// @Produce json
// @Param request body request_models.DiagnosisRequest true "Answers and optional session id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/diagnosis/result [post]
func (d *DiagnosisController) SubmitDiagnosis(c *gin.Context) {
	var req request_models.DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}

	result, err := d.diagnosisService.Submit(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "진단이 완료되었습니다.")
}

// GetResult godoc
// @Summary Stored diagnosis result
// @Tags Diagnosis
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/diagnosis/result/{sessionId} [get]
func (d *DiagnosisController) GetResult(c *gin.Context) {
	result, err := d.diagnosisService.GetResult(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "")
}

// History godoc
// @Summary Current user's diagnosis history, newest first
// @Tags Diagnosis
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/diagnosis/history [get]
func (d *DiagnosisController) History(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	var req request_models.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	history, err := d.diagnosisService.History(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, history, "")
}
