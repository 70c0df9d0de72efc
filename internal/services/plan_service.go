package services

import (
	"context"

	"go.uber.org/zap"

	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/utils"
)

const maxSimilarPlans = 3

type PlanServiceInterface interface {
	ListPlans(ctx context.Context, request request_models.ListPlansRequest) (*response_models.PlanListResponse, error)
	GetPlanDetail(ctx context.Context, planID string) (*response_models.PlanDetailResponse, error)
}

func NewPlanService(planRepo repositories.IPlanRepository, log *zap.Logger) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		log:      log,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	log      *zap.Logger
}

func (p *PlanService) ListPlans(ctx context.Context, request request_models.ListPlansRequest) (*response_models.PlanListResponse, error) {
	page, limit, err := utils.NormalizePage(request.Page, request.Limit, utils.DefaultPageLimit)
	if err != nil {
		return nil, err
	}

	plans, total, err := p.planRepo.ListActivePlans(ctx, repositories.PlanListFilter{
		Search:   request.Search,
		Category: request.Category,
		Offset:   utils.Offset(page, limit),
		Limit:    limit,
	})
	if err != nil {
		p.log.Error("list plans", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	pagination := response_models.NewPagination(page, limit, total)
	return &response_models.PlanListResponse{
		Plans:       repositories.ToPlanViews(plans),
		TotalPages:  pagination.TotalPages,
		CurrentPage: page,
		TotalCount:  total,
	}, nil
}

func (p *PlanService) GetPlanDetail(ctx context.Context, planID string) (*response_models.PlanDetailResponse, error) {
	plan, err := p.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		p.log.Error("get plan", zap.String("plan_id", planID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}

	similar, err := p.planRepo.FindSimilarPlans(ctx, plan, maxSimilarPlans)
	if err != nil {
		p.log.Error("find similar plans", zap.String("plan_id", planID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return &response_models.PlanDetailResponse{
		Plan:         repositories.ToPlanView(*plan),
		SimilarPlans: repositories.ToPlanViews(similar),
	}, nil
}
