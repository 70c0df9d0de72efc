package response_models

import (
	"time"

	"yoplan/internal/diagnosis"
)

type DiagnosisResultResponse struct {
	SessionID        string                 `json:"sessionId"`
	Analysis         diagnosis.Analysis     `json:"analysisResult"`
	RecommendedPlans []diagnosis.ScoredPlan `json:"recommendedPlans"`
	TotalScore       int                    `json:"totalScore"`
	Message          string                 `json:"message,omitempty"`
	CreatedAt        *time.Time             `json:"createdAt,omitempty"`
}

type Pagination struct {
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		TotalPages:  pages,
		CurrentPage: page,
		TotalCount:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

type DiagnosisHistoryResponse struct {
	History    []DiagnosisResultResponse `json:"history"`
	Pagination Pagination                `json:"pagination"`
}
