package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"yoplan/internal/diagnosis"
	"yoplan/internal/repositories"
	mem "yoplan/pkg/memcache"
)

const (
	promptPlanLimit = 50
	promptCacheKey  = "system_prompt"
)

const systemPromptHeader = `당신은 요플랜 통신요금제 안내 전문 챗봇 "요플밍" 입니다.

사용자가 인사하거나 간단한 말을 걸어오면 친절하게 응답해주세요.
아래 제공된 요금제를 참고해, 사용자의 조건(가격, 데이터 사용량, 나이, 통화 등)을 기준으로 최적의 요금제를 추천하세요.
사용자의 연령 조건에 주의해서 요금제를 추천하세요.
예: 사용자가 '50살인데 추천해줘'라고 하면, max_age >= 50 인 요금제를 추천해야 합니다.

요금제에 대한 설명, 비교, 추천, 조건 분석 모두 포함하여 자연스럽고 친절하게 응답하세요.

정치, 날씨, 게임 등 요금제와 무관한 주제일 경우 다음처럼 대답하세요:
"죄송합니다. 요금제 관련 질문만 도와드릴 수 있습니다."

아래는 요금제 목록입니다:
`

type PromptServiceInterface interface {
	// SystemPrompt returns the assistant instructions with the current plan
	// catalog summary. The result is cached.
	SystemPrompt(ctx context.Context) (string, error)
}

type PromptService struct {
	planRepo repositories.IPlanRepository
	cache    *mem.TTLCache[string]
	log      *zap.Logger
}

func NewPromptService(planRepo repositories.IPlanRepository, cache *mem.TTLCache[string], log *zap.Logger) PromptServiceInterface {
	return &PromptService{
		planRepo: planRepo,
		cache:    cache,
		log:      log,
	}
}

func (p *PromptService) SystemPrompt(ctx context.Context) (string, error) {
	return p.cache.GetOrLoad(promptCacheKey, func() (string, error) {
		plans, err := p.planRepo.CheapestActivePlans(ctx, promptPlanLimit)
		if err != nil {
			return "", fmt.Errorf("load plans for prompt: %w", err)
		}
		summaries := make([]string, 0, len(plans))
		for _, plan := range repositories.ToPlanViews(plans) {
			summaries = append(summaries, SummarizePlan(plan))
		}
		p.log.Debug("system prompt rebuilt", zap.Int("plans", len(summaries)))
		return systemPromptHeader + strings.Join(summaries, "\n"), nil
	})
}

// SummarizePlan renders one plan as a single prompt line.
func SummarizePlan(plan diagnosis.Plan) string {
	data := firstInfo(plan.Infos, "데이터")
	sharing := firstInfo(plan.Infos, "테더링", "쉐어링")

	keys := make([]string, 0, len(plan.Benefits))
	for k := range plan.Benefits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	benefits := make([]string, 0, len(keys))
	for _, k := range keys {
		benefits = append(benefits, k+": "+plan.Benefits[k])
	}

	badge := "없음"
	if len(plan.Badge) > 0 {
		badge = strings.Join(plan.Badge, ", ")
	}

	return fmt.Sprintf("요금제명: %s, 카테고리: %s, 가격: %d원, 데이터: %s, 테더링+쉐어링: %s, 혜택: %s, 연령대: %s~%s, 태그: %s",
		plan.Name, plan.Category, plan.PriceValue, data, sharing,
		strings.Join(benefits, ", "), ageBound(plan.MinAge), ageBound(plan.MaxAge), badge)
}

func firstInfo(infos []string, keywords ...string) string {
	for _, info := range infos {
		for _, k := range keywords {
			if strings.Contains(info, k) {
				return info
			}
		}
	}
	return "정보 없음"
}

func ageBound(age *int) string {
	if age == nil {
		return "전체"
	}
	return fmt.Sprint(*age)
}
