package repositories

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
)

const maxSearchRunes = 100

var searchDisallowed = regexp.MustCompile(`[^A-Za-z0-9_\s가-힣ㄱ-ㅎㅏ-ㅣ+]`)

// sanitizeSearch keeps latin word characters, Hangul, whitespace and '+',
// and caps the term at 100 runes.
func sanitizeSearch(raw string) string {
	s := strings.TrimSpace(searchDisallowed.ReplaceAllString(raw, ""))
	if r := []rune(s); len(r) > maxSearchRunes {
		s = string(r[:maxSearchRunes])
	}
	return s
}

// '_' survives sanitizing and is a LIKE wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `_`, `\_`, `%`, `\%`)

type PlanListFilter struct {
	Search   string
	Category string
	Offset   int
	Limit    int
}

type IPlanRepository interface {
	GetPlanByID(ctx context.Context, planID string) (*db_models.Plan, error)
	ListActivePlans(ctx context.Context, filter PlanListFilter) ([]db_models.Plan, int64, error)
	FindSimilarPlans(ctx context.Context, plan *db_models.Plan, limit int) ([]db_models.Plan, error)
	FindPlansByIDs(ctx context.Context, ids []string) ([]db_models.Plan, error)
	CheapestActivePlans(ctx context.Context, limit int) ([]db_models.Plan, error)
	UpsertByName(ctx context.Context, plan *db_models.Plan) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) GetPlanByID(ctx context.Context, planID string) (*db_models.Plan, error) {
	id, ok := canonicalID(planID)
	if !ok {
		return nil, nil
	}

	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p PlanRepository) ListActivePlans(ctx context.Context, filter PlanListFilter) ([]db_models.Plan, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true)
		if s := sanitizeSearch(filter.Search); s != "" {
			db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		return db
	}

	var total int64
	if err := p.db.WithContext(ctx).Model(&db_models.Plan{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []db_models.Plan
	err := p.db.WithContext(ctx).Scopes(scope).
		Order("price_value ASC").Order("id ASC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&plans).Error
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// FindSimilarPlans returns active plans of the same category priced within
// 30% of the given plan.
func (p PlanRepository) FindSimilarPlans(ctx context.Context, plan *db_models.Plan, limit int) ([]db_models.Plan, error) {
	spread := plan.PriceValue * 3 / 10
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("id <> ? AND category = ? AND is_active = ?", plan.ID, plan.Category, true).
		Where("price_value BETWEEN ? AND ?", plan.PriceValue-spread, plan.PriceValue+spread).
		Order("price_value ASC").Order("id ASC").
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (p PlanRepository) FindPlansByIDs(ctx context.Context, ids []string) ([]db_models.Plan, error) {
	valid := filterUUIDs(ids)
	if len(valid) == 0 {
		return []db_models.Plan{}, nil
	}
	var plans []db_models.Plan
	if err := p.db.WithContext(ctx).Where("id IN ?", valid).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (p PlanRepository) CheapestActivePlans(ctx context.Context, limit int) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_value ASC").Order("id ASC").
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (p PlanRepository) UpsertByName(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db_models.Plan
		err := tx.Where("name = ?", plan.Name).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(plan).Error
		case err != nil:
			return err
		}
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		return tx.Save(plan).Error
	})
}

func (p PlanRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&db_models.Plan{}).Count(&n).Error
	return n, err
}

func (p PlanRepository) DeleteAll(ctx context.Context) error {
	return p.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&db_models.Plan{}).Error
}
