package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"yoplan/internal/models/db_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/llm"
	mem "yoplan/pkg/memcache"
	"yoplan/pkg/utils"
)

const (
	SourceFaq         = "faq"
	SourceFaqSemantic = "faq_semantic"
	SourceLLM         = "llm"

	faqCacheKey = "faqs"
)

// FaqHit is an FAQ answer chosen for a chat message.
type FaqHit struct {
	FaqID  string
	Answer string
	Source string
}

type FaqServiceInterface interface {
	ListFaqs(ctx context.Context) ([]response_models.FaqResponse, error)
	// Match looks for an FAQ answering message. Exact question or variation
	// equality is always tried; loose also accepts contained phrases and
	// keywords. The semantic fallback runs only when embeddings are configured.
	Match(ctx context.Context, message string, loose bool) (*FaqHit, error)
}

type FaqService struct {
	faqRepo       repositories.FaqRepositoryInterface
	embeddingRepo repositories.IFaqEmbeddingRepository
	embedder      llm.Embedder
	threshold     float64
	cache         *mem.TTLCache[[]db_models.Faq]
	log           *zap.Logger
}

// NewFaqService builds the matcher. embedder and embeddingRepo may be nil,
// which disables the semantic fallback.
func NewFaqService(
	faqRepo repositories.FaqRepositoryInterface,
	embeddingRepo repositories.IFaqEmbeddingRepository,
	embedder llm.Embedder,
	threshold float64,
	cache *mem.TTLCache[[]db_models.Faq],
	log *zap.Logger,
) FaqServiceInterface {
	return &FaqService{
		faqRepo:       faqRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		threshold:     threshold,
		cache:         cache,
		log:           log,
	}
}

func (f *FaqService) faqs(ctx context.Context) ([]db_models.Faq, error) {
	return f.cache.GetOrLoad(faqCacheKey, func() ([]db_models.Faq, error) {
		return f.faqRepo.ListAll(ctx)
	})
}

func (f *FaqService) ListFaqs(ctx context.Context) ([]response_models.FaqResponse, error) {
	faqs, err := f.faqs(ctx)
	if err != nil {
		f.log.Error("list faqs", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.FaqResponse, 0, len(faqs))
	for _, faq := range faqs {
		out = append(out, response_models.FaqResponse{
			ID:         faq.ID.String(),
			Question:   faq.Question,
			Answer:     faq.Answer,
			Variations: nonNil(faq.Variations),
			Keywords:   nonNil(faq.Keywords),
			Category:   faq.Category,
		})
	}
	return out, nil
}

func (f *FaqService) Match(ctx context.Context, message string, loose bool) (*FaqHit, error) {
	normalized := normalizeFaqText(message)
	if normalized == "" {
		return nil, nil
	}
	faqs, err := f.faqs(ctx)
	if err != nil {
		f.log.Error("load faqs", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if faq := matchExact(faqs, normalized); faq != nil {
		return &FaqHit{FaqID: faq.ID.String(), Answer: faq.Answer, Source: SourceFaq}, nil
	}
	if loose {
		if faq := matchContained(faqs, normalized); faq != nil {
			return &FaqHit{FaqID: faq.ID.String(), Answer: faq.Answer, Source: SourceFaq}, nil
		}
	}
	return f.matchSemantic(ctx, message), nil
}

// matchSemantic never fails the caller: an embedding or search error just
// means no FAQ answer.
func (f *FaqService) matchSemantic(ctx context.Context, message string) *FaqHit {
	if f.embedder == nil || f.embeddingRepo == nil {
		return nil
	}
	vector, err := f.embedder.Embed(ctx, message)
	if err != nil {
		f.log.Warn("faq embedding failed", zap.Error(err))
		return nil
	}
	matches, err := f.embeddingRepo.SearchSimilar(ctx, vector, f.threshold, 1)
	if err != nil {
		f.log.Warn("faq similarity search failed", zap.Error(err))
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	f.log.Debug("semantic faq match", zap.String("faq_id", best.FaqID), zap.Float64("similarity", best.Similarity))
	return &FaqHit{FaqID: best.FaqID, Answer: best.Answer, Source: SourceFaqSemantic}
}

func matchExact(faqs []db_models.Faq, normalized string) *db_models.Faq {
	for i := range faqs {
		if normalizeFaqText(faqs[i].Question) == normalized {
			return &faqs[i]
		}
		for _, v := range faqs[i].Variations {
			if normalizeFaqText(v) == normalized {
				return &faqs[i]
			}
		}
	}
	return nil
}

// matchContained returns the first FAQ whose question, a variation or a
// keyword appears inside the message.
func matchContained(faqs []db_models.Faq, normalized string) *db_models.Faq {
	for i := range faqs {
		if containsPhrase(normalized, faqs[i].Question) {
			return &faqs[i]
		}
		for _, v := range faqs[i].Variations {
			if containsPhrase(normalized, v) {
				return &faqs[i]
			}
		}
		for _, k := range faqs[i].Keywords {
			if containsPhrase(normalized, k) {
				return &faqs[i]
			}
		}
	}
	return nil
}

func containsPhrase(normalized, phrase string) bool {
	p := normalizeFaqText(phrase)
	return p != "" && strings.Contains(normalized, p)
}

func normalizeFaqText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
