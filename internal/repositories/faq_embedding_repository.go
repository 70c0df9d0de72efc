package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoplan/internal/models/db_models"
)

type FaqMatch struct {
	db_models.FaqEmbedding
	Similarity float64
}

type IFaqEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding db_models.FaqEmbedding) error
	// SearchSimilar returns the closest FAQs by cosine similarity above threshold.
	SearchSimilar(ctx context.Context, vector pgvector.Vector, threshold float64, limit int) ([]FaqMatch, error)
	DeleteAll(ctx context.Context) error
}

type FaqEmbeddingRepository struct {
	db *gorm.DB
}

func NewFaqEmbeddingRepository(db *gorm.DB) IFaqEmbeddingRepository {
	return &FaqEmbeddingRepository{db: db}
}

func (r *FaqEmbeddingRepository) Upsert(ctx context.Context, embedding db_models.FaqEmbedding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "faq_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question", "answer", "embedding"}),
	}).Create(&embedding).Error
}

func (r *FaqEmbeddingRepository) SearchSimilar(ctx context.Context, vector pgvector.Vector, threshold float64, limit int) ([]FaqMatch, error) {
	var results []FaqMatch

	query := `
        SELECT faq_id, question, answer, created_at, (1 - (embedding <=> ?)) AS similarity
        FROM faq_embeddings
        WHERE (1 - (embedding <=> ?)) > ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `
	err := r.db.WithContext(ctx).Raw(query, vector, vector, threshold, vector, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *FaqEmbeddingRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&db_models.FaqEmbedding{}).Error
}
