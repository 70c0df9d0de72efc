// cmd/fx/prompt_fx/init.go
package prompt_fx

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/infra"
	"yoplan/internal/repositories"
	"yoplan/internal/services"
	"yoplan/pkg/llm"
	mem "yoplan/pkg/memcache"
)

var Module = fx.Provide(
	ProvideChatClient,
	ProvideEmbedder,
	ProvideConversationRepo,
	ProvidePromptService,
	ProvideChatService)

// ProvideChatClient creates the chat model client for the configured provider.
func ProvideChatClient(lc fx.Lifecycle, cfg *infra.Config, log *zap.Logger) (llm.ChatClient, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required when using the openai provider")
		}
		log.Info("initializing chat client", zap.String("provider", "openai"), zap.String("model", cfg.OpenAIModel))
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbeddingModel, cfg.OpenAIBaseURL), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required when using the gemini provider")
		}
		client, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		log.Info("initializing chat client", zap.String("provider", "gemini"), zap.String("model", cfg.GeminiModel))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}

// ProvideEmbedder returns nil when no OpenAI key is configured, which turns
// the semantic FAQ fallback off.
func ProvideEmbedder(cfg *infra.Config) llm.Embedder {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbeddingModel, cfg.OpenAIBaseURL)
}

func ProvideConversationRepo(db *gorm.DB) repositories.ConversationRepository {
	return repositories.NewConversationRepository(db)
}

func ProvidePromptService(planRepo repositories.IPlanRepository, cache *mem.TTLCache[string], log *zap.Logger) services.PromptServiceInterface {
	return services.NewPromptService(planRepo, cache, log.Named("prompt"))
}

func ProvideChatService(
	faqs services.FaqServiceInterface,
	prompts services.PromptServiceInterface,
	chat llm.ChatClient,
	conversations repositories.ConversationRepository,
	log *zap.Logger,
) services.ChatServiceInterface {
	return services.NewChatService(faqs, prompts, chat, conversations, log.Named("chat"))
}
