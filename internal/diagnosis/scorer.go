package diagnosis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	weightData   = 0.4
	weightBudget = 0.3
	weightUsage  = 0.2
	weightBonus  = 0.1

	maxReasons = 3
	// MaxRecommendations bounds the ranked list returned to callers.
	MaxRecommendations = 5
)

var (
	gigabytePattern = regexp.MustCompile(`(\d+)gb`) // unit directly after the number
	wonPrinter      = message.NewPrinter(language.Korean)
)

// ScorePlan computes the match score and reasons for one plan. Reasons are
// collected in evaluation order (data, budget, usage, bonus) and the first
// three are kept.
func ScorePlan(p Plan, a Analysis) (ScoredPlan, error) {
	var reasons []string

	data, err := dataScore(p, a, &reasons)
	if err != nil {
		return ScoredPlan{}, err
	}
	budget := budgetScore(p, a, &reasons)
	usage, err := usageScore(p, a, &reasons)
	if err != nil {
		return ScoredPlan{}, err
	}
	bonus := bonusScore(p, &reasons)

	total := data*weightData + budget*weightBudget + usage*weightUsage + bonus*weightBonus
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if reasons == nil {
		reasons = []string{}
	}

	return ScoredPlan{
		PlanID:     p.ID,
		Plan:       p,
		MatchScore: clampScore(int(math.Round(total))),
		Reasons:    reasons,
	}, nil
}

func dataScore(p Plan, a Analysis, reasons *[]string) (float64, error) {
	text := strings.ToLower(strings.Join(p.Infos, " "))

	if strings.Contains(text, "무제한") || strings.Contains(text, "unlimited") {
		if a.DataUsage > 50 {
			*reasons = append(*reasons, "무제한 데이터로 대용량 사용에 최적화")
			return 100, nil
		}
		*reasons = append(*reasons, "무제한 데이터 제공")
		return 75, nil
	}

	m := gigabytePattern.FindStringSubmatch(text)
	if m == nil {
		return 25, nil
	}
	planGB, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("plan %s: data allowance %q: %w", p.ID, m[1], err)
	}

	diff := math.Abs(float64(planGB) - a.DataUsage)
	switch {
	case diff <= 10:
		*reasons = append(*reasons, "데이터 사용량과 정확히 일치")
		return 100, nil
	case diff <= 20:
		*reasons = append(*reasons, "데이터 사용량과 유사함")
		return 75, nil
	case float64(planGB) >= a.DataUsage:
		*reasons = append(*reasons, "충분한 데이터 제공")
		return 60, nil
	}
	return 25, nil
}

func budgetScore(p Plan, a Analysis, reasons *[]string) float64 {
	if a.Budget <= 0 {
		return 50
	}

	diff := a.Budget - float64(p.PriceValue)
	if diff >= 0 {
		switch {
		case diff <= 10000:
			*reasons = append(*reasons, "예산에 딱 맞는 가격")
			return 100
		case diff <= 20000:
			*reasons = append(*reasons, "예산 내 합리적 가격")
			return 85
		default:
			*reasons = append(*reasons, wonPrinter.Sprintf("예산보다 %d원 저렴", int64(diff)))
			return 70
		}
	}

	if -diff <= 10000 {
		*reasons = append(*reasons, "예산 약간 초과하지만 좋은 혜택")
		return 40
	}
	return 15
}

type usageRule struct {
	tag      string
	keywords []string
	points   float64
	reason   string
}

var usageRules = []usageRule{
	{TagVideoStreaming, []string{"무제한", "unlimited", "넷플릭스", "netflix", "youtube"}, 40, "영상 스트리밍에 최적화"},
	{TagGaming, []string{"5g", "고속"}, 35, "게임에 적합한 고속 연결"},
	{TagMusic, []string{"바이브", "지니", "음악"}, 25, "음악 서비스 혜택 제공"},
}

func usageScore(p Plan, a Analysis, reasons *[]string) (float64, error) {
	if len(a.UsagePatterns) == 0 {
		return 0, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("plan %s: serialize: %w", p.ID, err)
	}
	text := strings.ToLower(string(raw))

	var score float64
	for _, rule := range usageRules {
		if !a.HasPattern(rule.tag) || !containsAny(text, rule.keywords) {
			continue
		}
		score += rule.points
		*reasons = append(*reasons, rule.reason)
	}
	return math.Min(score, 100), nil
}

func bonusScore(p Plan, reasons *[]string) float64 {
	var score float64
	if p.Badge.Contains("인기") {
		score += 60
		*reasons = append(*reasons, "인기 요금제")
	}
	if p.Badge.Contains("최신") {
		score += 40
		*reasons = append(*reasons, "최신 요금제")
	}
	return math.Min(score, 100)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DropFunc is told about every plan that could not be scored.
type DropFunc func(p Plan, err error)

type scoreOutcome struct {
	scored ScoredPlan
	err    error
}

// RankPlans scores every candidate concurrently, drops the ones that fail,
// and returns at most limit plans ordered by score. Equal scores keep the
// candidate order.
func RankPlans(plans []Plan, a Analysis, limit int, onDrop DropFunc) []ScoredPlan {
	outcomes := make([]scoreOutcome, len(plans))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range plans {
		g.Go(func() error {
			outcomes[i] = scoreSafely(plans[i], a)
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]ScoredPlan, 0, len(plans))
	for i, o := range outcomes {
		if o.err != nil {
			if onDrop != nil {
				onDrop(plans[i], o.err)
			}
			continue
		}
		ranked = append(ranked, o.scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func scoreSafely(p Plan, a Analysis) (out scoreOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = scoreOutcome{err: fmt.Errorf("plan %s: scoring panicked: %v", p.ID, r)}
		}
	}()
	scored, err := ScorePlan(p, a)
	return scoreOutcome{scored: scored, err: err}
}
