package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yoplan/internal/diagnosis"
	"yoplan/internal/models/db_models"
)

// DiagnosisCatalogRepository is the catalog view the diagnosis engine reads
// from: candidate plans and the question bank.
type DiagnosisCatalogRepository interface {
	diagnosis.CatalogStore
	ListActiveQuestions(ctx context.Context) ([]diagnosis.Question, error)
	UpsertQuestion(ctx context.Context, q *db_models.DiagnosisQuestion) error
	CountQuestions(ctx context.Context) (int64, error)
	DeleteQuestions(ctx context.Context) error
}

type diagnosisCatalogRepository struct {
	db *gorm.DB
}

func NewDiagnosisCatalogRepository(db *gorm.DB) DiagnosisCatalogRepository {
	return &diagnosisCatalogRepository{db: db}
}

// FindCandidates applies the same predicate as diagnosis.CandidateFilter.Matches.
// Candidates come back cheapest first so equal scores rank deterministically.
func (r *diagnosisCatalogRepository) FindCandidates(ctx context.Context, filter diagnosis.CandidateFilter) ([]diagnosis.Plan, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.Age != nil {
		q = q.Where("(min_age IS NULL OR min_age <= ?) AND (max_age IS NULL OR max_age >= ?)", *filter.Age, *filter.Age)
	}
	if filter.PriceCeiling != nil {
		q = q.Where("price_value <= ?", *filter.PriceCeiling)
	}

	var plans []db_models.Plan
	if err := q.Order("price_value ASC").Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return ToPlanViews(plans), nil
}

func (r *diagnosisCatalogRepository) FindQuestionsByID(ctx context.Context, ids []string) ([]diagnosis.Question, error) {
	valid := filterUUIDs(ids)
	if len(valid) == 0 {
		return []diagnosis.Question{}, nil
	}

	var rows []db_models.DiagnosisQuestion
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", valid, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// answers reference ids as the client sent them, possibly in several spellings
	byCanonical := make(map[string][]string, len(ids))
	for _, id := range ids {
		if c, ok := canonicalID(id); ok && !containsString(byCanonical[c], id) {
			byCanonical[c] = append(byCanonical[c], id)
		}
	}
	out := make([]diagnosis.Question, 0, len(ids))
	for _, row := range rows {
		view := ToQuestionView(row)
		for _, raw := range byCanonical[view.ID] {
			q := view
			q.ID = raw
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *diagnosisCatalogRepository) ListActiveQuestions(ctx context.Context) ([]diagnosis.Question, error) {
	var rows []db_models.DiagnosisQuestion
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]diagnosis.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToQuestionView(row))
	}
	return out, nil
}

// UpsertQuestion matches on sort order, which is unique within a question bank.
func (r *diagnosisCatalogRepository) UpsertQuestion(ctx context.Context, q *db_models.DiagnosisQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db_models.DiagnosisQuestion
		err := tx.Where("sort_order = ?", q.SortOrder).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(q).Error
		case err != nil:
			return err
		}
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
		return tx.Save(q).Error
	})
}

func (r *diagnosisCatalogRepository) CountQuestions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.DiagnosisQuestion{}).Count(&n).Error
	return n, err
}

func (r *diagnosisCatalogRepository) DeleteQuestions(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&db_models.DiagnosisQuestion{}).Error
}
