package repositories

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"yoplan/internal/infra"
	"yoplan/internal/models/db_models"
)

// newTestDB returns an isolated in-memory SQLite database with the schema
// migrated. A single connection keeps concurrent writers serialized.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrate(db))
	return db
}

type planSeed struct {
	name     string
	category string
	price    int64
	infos    []string
	badge    any
	minAge   *int
	maxAge   *int
	inactive bool
}

func seedPlan(t *testing.T, db *gorm.DB, s planSeed) *db_models.Plan {
	t.Helper()
	badge, err := json.Marshal(s.badge)
	require.NoError(t, err)
	category := s.category
	if category == "" {
		category = db_models.PlanCategory5G
	}
	p := &db_models.Plan{
		Name:       s.name,
		Category:   category,
		PriceValue: s.price,
		Infos:      s.infos,
		Benefits:   datatypes.JSON(`{"ott":"넷플릭스"}`),
		Badge:      datatypes.JSON(badge),
		MinAge:     s.minAge,
		MaxAge:     s.maxAge,
		IsActive:   !s.inactive,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedQuestion(t *testing.T, db *gorm.DB, order int, active bool) *db_models.DiagnosisQuestion {
	t.Helper()
	q := &db_models.DiagnosisQuestion{
		SortOrder: order,
		Question:  "질문",
		Type:      "single",
		Options:   []string{"a", "b"},
		Category:  "data",
		Weight:    5,
		IsActive:  active,
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func intPtr(v int) *int { return &v }
