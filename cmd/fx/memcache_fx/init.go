package memcache_fx

import (
	"go.uber.org/fx"

	"yoplan/internal/infra"
	"yoplan/internal/models/db_models"
	mem "yoplan/pkg/memcache"
)

var Module = fx.Provide(
	providePromptCache,
	provideFaqCache)

// providePromptCache holds the rendered chat system prompt.
func providePromptCache(cfg *infra.Config) *mem.TTLCache[string] {
	return mem.NewTTLCache[string](cfg.ChatPromptTTL, nil)
}

func provideFaqCache(cfg *infra.Config) *mem.TTLCache[[]db_models.Faq] {
	return mem.NewTTLCache[[]db_models.Faq](cfg.ChatPromptTTL, nil)
}
