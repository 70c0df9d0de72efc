package infra

import (
	"fmt"

	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
)

// CoreModels are the tables every environment needs.
func CoreModels() []any {
	return []any{
		&db_models.User{},
		&db_models.Plan{},
		&db_models.Bookmark{},
		&db_models.DiagnosisQuestion{},
		&db_models.DiagnosisResult{},
		&db_models.Faq{},
		&db_models.Conversation{},
		&db_models.ChatMessage{},
	}
}

// Migrate creates the schema. The pgvector table is only created on Postgres.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(CoreModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.AutoMigrate(&db_models.FaqEmbedding{}); err != nil {
		return fmt.Errorf("auto migrate faq embeddings: %w", err)
	}
	return nil
}
