package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"yoplan/internal/models/db_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/llm"
)

// ErrEmbeddingsDisabled is returned when no embedding provider is configured.
var ErrEmbeddingsDisabled = errors.New("faq embeddings need an embedding provider")

type EmbededServiceInterface interface {
	// EmbedFaqs writes an embedding for every FAQ and returns how many were stored.
	EmbedFaqs(ctx context.Context) (int, error)
}

type EmbededService struct {
	faqRepo     repositories.FaqRepositoryInterface
	embededRepo repositories.IFaqEmbeddingRepository
	embedder    llm.Embedder
	log         *zap.Logger
}

func NewEmbededService(faqRepo repositories.FaqRepositoryInterface, embededRepo repositories.IFaqEmbeddingRepository, embedder llm.Embedder, log *zap.Logger) EmbededServiceInterface {
	return &EmbededService{
		faqRepo:     faqRepo,
		embededRepo: embededRepo,
		embedder:    embedder,
		log:         log,
	}
}

func (e *EmbededService) EmbedFaqs(ctx context.Context) (int, error) {
	if e.embedder == nil {
		return 0, ErrEmbeddingsDisabled
	}
	faqs, err := e.faqRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list faqs: %w", err)
	}

	stored := 0
	for _, faq := range faqs {
		vector, err := e.embedder.Embed(ctx, EmbeddingText(faq))
		if err != nil {
			return stored, fmt.Errorf("embed faq %s: %w", faq.ID, err)
		}
		err = e.embededRepo.Upsert(ctx, db_models.FaqEmbedding{
			FaqID:     faq.ID.String(),
			Question:  faq.Question,
			Answer:    faq.Answer,
			Embedding: vector,
		})
		if err != nil {
			return stored, fmt.Errorf("store faq embedding %s: %w", faq.ID, err)
		}
		stored++
	}
	e.log.Info("faq embeddings stored", zap.Int("count", stored))
	return stored, nil
}

// EmbeddingText is the text embedded for an FAQ: the question followed by its
// variations, so paraphrases land close to it.
func EmbeddingText(faq db_models.Faq) string {
	parts := append([]string{faq.Question}, faq.Variations...)
	return strings.Join(parts, "\n")
}
