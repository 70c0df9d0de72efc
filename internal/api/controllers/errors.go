package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yoplan/internal/diagnosis"
	"yoplan/pkg/utils"
)

// respondServiceError maps the diagnosis engine's typed errors and falls
// back to the shared sentinel table.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation *diagnosis.ValidationError
		invalidQ   *diagnosis.InvalidQuestionError
		conflict   *diagnosis.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		utils.RespondError(c, http.StatusBadRequest, validation.Reason)
	case errors.As(err, &invalidQ):
		utils.RespondErrorWithData(c, http.StatusBadRequest, "유효하지 않은 질문이 포함되어 있습니다.",
			gin.H{"invalidQuestionIds": invalidQ.QuestionIDs})
	case errors.As(err, &conflict):
		utils.RespondErrorWithData(c, http.StatusConflict, "이미 처리된 진단 세션입니다.",
			gin.H{"sessionId": conflict.SessionID})
	default:
		utils.HandleServiceError(c, err)
	}
}
