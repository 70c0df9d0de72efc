package db_models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type FaqEmbedding struct {
	FaqID     string `gorm:"primaryKey;column:faq_id"`
	Question  string
	Answer    string
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}
