package response_models

import (
	"time"

	"yoplan/internal/diagnosis"
)

// PlanResponse keeps the catalog's snake_case field names, which clients
// already read from diagnosis results.
type PlanResponse = diagnosis.Plan

type PlanListResponse struct {
	Plans       []PlanResponse `json:"plans"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalCount  int64          `json:"totalCount"`
}

type PlanDetailResponse struct {
	Plan         PlanResponse   `json:"plan"`
	SimilarPlans []PlanResponse `json:"similarPlans"`
}

type BookmarkResponse struct {
	PlanID    string       `json:"planId"`
	Plan      PlanResponse `json:"plan"`
	CreatedAt time.Time    `json:"createdAt"`
}
