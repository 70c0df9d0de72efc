package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yoplan/internal/diagnosis"
	"yoplan/internal/models/db_models"
	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/metrics"
	"yoplan/pkg/utils"
)

const defaultHistoryLimit = 10

// UserAgeLookup resolves the age of an authenticated user.
type UserAgeLookup interface {
	UserAge(ctx context.Context, userID uuid.UUID) (*int, error)
}

type DiagnosisServiceInterface interface {
	ListQuestions(ctx context.Context) ([]diagnosis.Question, error)
	// Submit runs the recommendation pipeline. userID is nil for anonymous callers.
	Submit(ctx context.Context, request request_models.DiagnosisRequest, userID *uuid.UUID) (*response_models.DiagnosisResultResponse, error)
	GetResult(ctx context.Context, sessionID string) (*response_models.DiagnosisResultResponse, error)
	History(ctx context.Context, userID uuid.UUID, request request_models.PageRequest) (*response_models.DiagnosisHistoryResponse, error)
}

type DiagnosisService struct {
	engine   *diagnosis.Engine
	catalog  repositories.DiagnosisCatalogRepository
	results  repositories.DiagnosisResultRepository
	planRepo repositories.IPlanRepository
	ages     UserAgeLookup
	log      *zap.Logger
}

func NewDiagnosisService(
	catalog repositories.DiagnosisCatalogRepository,
	results repositories.DiagnosisResultRepository,
	planRepo repositories.IPlanRepository,
	ages UserAgeLookup,
	log *zap.Logger,
	opts ...diagnosis.EngineOption,
) DiagnosisServiceInterface {
	opts = append([]diagnosis.EngineOption{
		diagnosis.WithDropHook(func(diagnosis.Plan, error) { metrics.ScoringDrops.Inc() }),
	}, opts...)
	return &DiagnosisService{
		engine:   diagnosis.NewEngine(catalog, results, log, opts...),
		catalog:  catalog,
		results:  results,
		planRepo: planRepo,
		ages:     ages,
		log:      log,
	}
}

func (d *DiagnosisService) ListQuestions(ctx context.Context) ([]diagnosis.Question, error) {
	questions, err := d.catalog.ListActiveQuestions(ctx)
	if err != nil {
		d.log.Error("list questions", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return questions, nil
}

func (d *DiagnosisService) Submit(ctx context.Context, request request_models.DiagnosisRequest, userID *uuid.UUID) (*response_models.DiagnosisResultResponse, error) {
	start := time.Now()
	sub := diagnosis.Submission{
		SessionID: request.SessionID,
		Answers:   request.Answers,
	}
	if userID != nil {
		id := userID.String()
		sub.UserID = &id
		age, err := d.ages.UserAge(ctx, *userID)
		if err != nil {
			return nil, err
		}
		sub.AuthAge = age
	}

	result, err := d.engine.Process(ctx, sub)
	metrics.DiagnosisDuration.Observe(time.Since(start).Seconds())
	metrics.DiagnosisOutcomes.WithLabelValues(outcomeOf(result, err)).Inc()
	if err != nil {
		var perr *diagnosis.PersistenceError
		if errors.As(err, &perr) {
			d.log.Error("diagnosis persistence failure", zap.String("op", perr.Op), zap.Error(perr.Err))
			return nil, utils.ErrDatabaseError
		}
		return nil, err
	}

	resp := toDiagnosisResponse(result, nil)
	return &resp, nil
}

func outcomeOf(result *diagnosis.Result, err error) string {
	var (
		validation *diagnosis.ValidationError
		invalidQ   *diagnosis.InvalidQuestionError
	)
	switch {
	case err == nil && len(result.RecommendedPlans) == 0:
		return "no_match"
	case err == nil:
		return "recommended"
	case errors.As(err, &validation), errors.As(err, &invalidQ):
		return "invalid"
	case errors.Is(err, diagnosis.ErrSessionConflict):
		return "conflict"
	default:
		return "error"
	}
}

// GetResult returns a stored result with its plans refreshed from the catalog.
// Plans that were removed or deactivated since are left out.
func (d *DiagnosisService) GetResult(ctx context.Context, sessionID string) (*response_models.DiagnosisResultResponse, error) {
	if !diagnosis.ValidSessionID(sessionID) {
		return nil, utils.ErrInvalidID
	}
	row, err := d.results.FindBySessionID(ctx, sessionID)
	if err != nil {
		d.log.Error("find diagnosis result", zap.String("session_id", sessionID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if row == nil {
		return nil, utils.ErrResultNotFound
	}

	result, err := repositories.ToResult(*row)
	if err != nil {
		d.log.Error("decode diagnosis result", zap.String("session_id", sessionID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if err := d.rehydrate(ctx, result); err != nil {
		return nil, err
	}

	createdAt := utils.FromUnixSecondsKST(row.CreatedAt)
	resp := toDiagnosisResponse(result, &createdAt)
	return &resp, nil
}

func (d *DiagnosisService) rehydrate(ctx context.Context, result *diagnosis.Result) error {
	if len(result.RecommendedPlans) == 0 {
		return nil
	}
	ids := make([]string, 0, len(result.RecommendedPlans))
	for _, sp := range result.RecommendedPlans {
		ids = append(ids, sp.PlanID)
	}
	current, err := d.planRepo.FindPlansByIDs(ctx, ids)
	if err != nil {
		d.log.Error("rehydrate plans", zap.Error(err))
		return utils.ErrDatabaseError
	}
	byID := make(map[string]diagnosis.Plan, len(current))
	for _, p := range current {
		if p.IsActive {
			byID[p.ID.String()] = repositories.ToPlanView(p)
		}
	}

	kept := make([]diagnosis.ScoredPlan, 0, len(result.RecommendedPlans))
	for _, sp := range result.RecommendedPlans {
		if plan, ok := byID[sp.PlanID]; ok {
			sp.Plan = plan
			kept = append(kept, sp)
		}
	}
	result.RecommendedPlans = kept
	return nil
}

func (d *DiagnosisService) History(ctx context.Context, userID uuid.UUID, request request_models.PageRequest) (*response_models.DiagnosisHistoryResponse, error) {
	page, limit, err := utils.NormalizePage(request.Page, request.Limit, defaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	rows, total, err := d.results.ListByUser(ctx, userID, utils.Offset(page, limit), limit)
	if err != nil {
		d.log.Error("list diagnosis history", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	history := make([]response_models.DiagnosisResultResponse, 0, len(rows))
	for _, row := range rows {
		entry, err := historyEntry(row)
		if err != nil {
			d.log.Warn("skip undecodable diagnosis result", zap.String("session_id", row.SessionID), zap.Error(err))
			continue
		}
		history = append(history, entry)
	}

	return &response_models.DiagnosisHistoryResponse{
		History:    history,
		Pagination: response_models.NewPagination(page, limit, total),
	}, nil
}

func historyEntry(row db_models.DiagnosisResult) (response_models.DiagnosisResultResponse, error) {
	result, err := repositories.ToResult(row)
	if err != nil {
		return response_models.DiagnosisResultResponse{}, err
	}
	createdAt := utils.FromUnixSecondsKST(row.CreatedAt)
	return toDiagnosisResponse(result, &createdAt), nil
}

func toDiagnosisResponse(result *diagnosis.Result, createdAt *time.Time) response_models.DiagnosisResultResponse {
	return response_models.DiagnosisResultResponse{
		SessionID:        result.SessionID,
		Analysis:         result.Analysis,
		RecommendedPlans: result.RecommendedPlans,
		TotalScore:       result.TotalScore,
		Message:          result.Message,
		CreatedAt:        createdAt,
	}
}
