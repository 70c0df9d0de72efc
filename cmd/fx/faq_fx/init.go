package faq_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/infra"
	"yoplan/internal/models/db_models"
	"yoplan/internal/repositories"
	"yoplan/internal/services"
	"yoplan/pkg/llm"
	mem "yoplan/pkg/memcache"
)

var Module = fx.Provide(
	provideFaqRepo,
	provideEmbededRepo,
	provideFaqService,
	provideEmbededService)

func provideFaqRepo(db *gorm.DB) repositories.FaqRepositoryInterface {
	return repositories.NewFaqRepository(db)
}

func provideEmbededRepo(db *gorm.DB) repositories.IFaqEmbeddingRepository {
	return repositories.NewFaqEmbeddingRepository(db)
}

func provideFaqService(
	cfg *infra.Config,
	faqRepo repositories.FaqRepositoryInterface,
	embededRepo repositories.IFaqEmbeddingRepository,
	embedder llm.Embedder,
	cache *mem.TTLCache[[]db_models.Faq],
	log *zap.Logger,
) services.FaqServiceInterface {
	return services.NewFaqService(faqRepo, embededRepo, embedder, cfg.FaqSimilarityThreshold, cache, log.Named("faq"))
}

func provideEmbededService(
	faqRepo repositories.FaqRepositoryInterface,
	embededRepo repositories.IFaqEmbeddingRepository,
	embedder llm.Embedder,
	log *zap.Logger,
) services.EmbededServiceInterface {
	return services.NewEmbededService(faqRepo, embededRepo, embedder, log.Named("embedding"))
}
