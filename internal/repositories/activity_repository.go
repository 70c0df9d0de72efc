package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "yoplan/internal/models/db_models"
)

// ActivityRepository answers the operator report printed by yoplanctl.
type ActivityRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountNewUsers(ctx context.Context, start, end time.Time) (int64, error)
	// CountDiagnoses counts results created in the window; membersOnly keeps
	// the ones submitted by a signed-in user.
	CountDiagnoses(ctx context.Context, start, end time.Time, membersOnly bool) (int64, error)
	CountConversations(ctx context.Context, start, end time.Time) (int64, error)
	CountBookmarks(ctx context.Context) (int64, error)
	CountActivePlans(ctx context.Context) (int64, error)
	TopBookmarkedPlans(ctx context.Context, limit int) ([]BookmarkedPlanRow, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

type BookmarkedPlanRow struct {
	PlanID     string `gorm:"column:plan_id"`
	PlanName   string `gorm:"column:plan_name"`
	Category   string `gorm:"column:category"`
	PriceValue int64  `gorm:"column:price_value"`
	Count      int64  `gorm:"column:count"`
}

func (r *activityRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Count(&n).Error
	return n, err
}

// created_at columns hold UNIX seconds.
func (r *activityRepository) CountNewUsers(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.User{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *activityRepository) CountDiagnoses(ctx context.Context, start, end time.Time, membersOnly bool) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).
		Model(&dbm.DiagnosisResult{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix())
	if membersOnly {
		tx = tx.Where("user_id IS NOT NULL")
	}
	err := tx.Count(&n).Error
	return n, err
}

func (r *activityRepository) CountConversations(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Conversation{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *activityRepository) CountBookmarks(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Bookmark{}).Count(&n).Error
	return n, err
}

func (r *activityRepository) CountActivePlans(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Plan{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *activityRepository) TopBookmarkedPlans(ctx context.Context, limit int) ([]BookmarkedPlanRow, error) {
	var rows []BookmarkedPlanRow
	err := r.db.WithContext(ctx).
		Table("bookmarks b").
		Select(`
			b.plan_id,
			p.name AS plan_name,
			p.category AS category,
			p.price_value AS price_value,
			COUNT(*) AS count`).
		Joins("JOIN plans p ON p.id = b.plan_id").
		Where("p.deleted_at IS NULL").
		Group("b.plan_id, p.name, p.category, p.price_value").
		Order("count DESC").
		Order("p.price_value ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
