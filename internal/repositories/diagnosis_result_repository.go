package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"yoplan/internal/diagnosis"
	"yoplan/internal/models/db_models"
)

type DiagnosisResultRepository interface {
	diagnosis.ResultStore
	FindBySessionID(ctx context.Context, sessionID string) (*db_models.DiagnosisResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]db_models.DiagnosisResult, int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type diagnosisResultRepository struct {
	db *gorm.DB
}

func NewDiagnosisResultRepository(db *gorm.DB) DiagnosisResultRepository {
	return &diagnosisResultRepository{db: db}
}

func (r *diagnosisResultRepository) ExistsSession(ctx context.Context, sessionID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&db_models.DiagnosisResult{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Save inserts the result. The unique index on session_id turns a lost race
// into diagnosis.ErrSessionConflict.
func (r *diagnosisResultRepository) Save(ctx context.Context, result *diagnosis.Result) error {
	row, err := toResultRow(result)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return diagnosis.ErrSessionConflict
		}
		return err
	}
	return nil
}

func toResultRow(result *diagnosis.Result) (*db_models.DiagnosisResult, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	analysis, err := json.Marshal(result.Analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	plans, err := json.Marshal(result.RecommendedPlans)
	if err != nil {
		return nil, fmt.Errorf("encode recommended plans: %w", err)
	}

	row := &db_models.DiagnosisResult{
		SessionID:        result.SessionID,
		Answers:          datatypes.JSON(answers),
		AnalysisResult:   datatypes.JSON(analysis),
		RecommendedPlans: datatypes.JSON(plans),
		TotalScore:       result.TotalScore,
	}
	if result.UserID != nil {
		id, err := uuid.Parse(*result.UserID)
		if err != nil {
			return nil, fmt.Errorf("user id: %w", err)
		}
		row.UserID = &id
	}
	return row, nil
}

// ToResult decodes a stored row back into the domain result.
func ToResult(row db_models.DiagnosisResult) (*diagnosis.Result, error) {
	result := &diagnosis.Result{
		SessionID:        row.SessionID,
		TotalScore:       row.TotalScore,
		Answers:          []diagnosis.Answer{},
		RecommendedPlans: []diagnosis.ScoredPlan{},
	}
	if row.UserID != nil {
		id := row.UserID.String()
		result.UserID = &id
	}
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &result.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	if len(row.AnalysisResult) > 0 {
		if err := json.Unmarshal(row.AnalysisResult, &result.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	if len(row.RecommendedPlans) > 0 {
		if err := json.Unmarshal(row.RecommendedPlans, &result.RecommendedPlans); err != nil {
			return nil, fmt.Errorf("decode recommended plans: %w", err)
		}
	}
	if len(result.RecommendedPlans) == 0 {
		result.Message = diagnosis.NoMatchMessage
	}
	return result, nil
}

func (r *diagnosisResultRepository) FindBySessionID(ctx context.Context, sessionID string) (*db_models.DiagnosisResult, error) {
	var row db_models.DiagnosisResult
	err := r.db.WithContext(ctx).First(&row, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *diagnosisResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]db_models.DiagnosisResult, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&db_models.DiagnosisResult{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []db_models.DiagnosisResult
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *diagnosisResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.DiagnosisResult{}).Count(&n).Error
	return n, err
}

func (r *diagnosisResultRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&db_models.DiagnosisResult{}).Error
}
