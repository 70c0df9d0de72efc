package diagnosis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePlan_UnlimitedPlanWithinBudget(t *testing.T) {
	p := Plan{ID: "p1", Infos: []string{"데이터 무제한"}, PriceValue: 58000, Active: true}
	a := Analysis{DataUsage: 35, Budget: 60000}

	got, err := ScorePlan(p, a)
	require.NoError(t, err)
	assert.Equal(t, 60, got.MatchScore)
	assert.Equal(t, []string{"무제한 데이터 제공", "예산에 딱 맞는 가격"}, got.Reasons)
	assert.Equal(t, "p1", got.PlanID)
}

func TestScorePlan_HeavyUserOnUnlimited(t *testing.T) {
	p := Plan{ID: "p1", Infos: []string{"Unlimited data"}, PriceValue: 80000}
	got, err := ScorePlan(p, Analysis{DataUsage: 150})
	require.NoError(t, err)
	// 100*0.4 + 50*0.3
	assert.Equal(t, 55, got.MatchScore)
	assert.Equal(t, []string{"무제한 데이터로 대용량 사용에 최적화"}, got.Reasons)
}

func TestScorePlan_DataAllowanceBands(t *testing.T) {
	tests := []struct {
		infos  string
		usage  float64
		want   int
		reason string
	}{
		{"데이터 30GB", 35, 55, "데이터 사용량과 정확히 일치"},
		{"데이터 20GB", 35, 45, "데이터 사용량과 유사함"},
		{"데이터 100GB", 35, 39, "충분한 데이터 제공"},
		{"데이터 3GB", 75, 25, ""},
		{"통화 무료", 35, 25, ""},
		{"데이터 30 GB", 35, 25, ""},
	}
	for _, tt := range tests {
		t.Run(tt.infos, func(t *testing.T) {
			got, err := ScorePlan(Plan{ID: "p", Infos: []string{tt.infos}}, Analysis{DataUsage: tt.usage})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MatchScore)
			if tt.reason == "" {
				assert.Empty(t, got.Reasons)
				assert.NotNil(t, got.Reasons)
			} else {
				assert.Equal(t, []string{tt.reason}, got.Reasons)
			}
		})
	}
}

func TestScorePlan_BudgetBands(t *testing.T) {
	tests := []struct {
		price  int64
		budget float64
		reason string
	}{
		{55000, 60000, "예산에 딱 맞는 가격"},
		{45000, 60000, "예산 내 합리적 가격"},
		{50000, 100000, "예산보다 50,000원 저렴"},
		{65000, 60000, "예산 약간 초과하지만 좋은 혜택"},
		{90000, 60000, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.price), func(t *testing.T) {
			got, err := ScorePlan(Plan{ID: "p", PriceValue: tt.price}, Analysis{Budget: tt.budget})
			require.NoError(t, err)
			if tt.reason == "" {
				assert.Empty(t, got.Reasons)
			} else {
				assert.Equal(t, []string{tt.reason}, got.Reasons)
			}
		})
	}
}

func TestScorePlan_UsageAndBonus(t *testing.T) {
	p := Plan{
		ID:       "p1",
		Infos:    []string{"5G 데이터 무제한"},
		Benefits: map[string]string{"ott": "넷플릭스 베이직", "music": "지니 뮤직"},
		Badge:    Badge{"인기", "최신"},
	}
	a := Analysis{
		DataUsage:     150,
		UsagePatterns: []string{TagVideoStreaming, TagGaming, TagMusic},
	}

	got, err := ScorePlan(p, a)
	require.NoError(t, err)
	// data 100, budget 50, usage min(40+35+25,100), bonus 100
	assert.Equal(t, 85, got.MatchScore)
	assert.Equal(t, []string{
		"무제한 데이터로 대용량 사용에 최적화",
		"영상 스트리밍에 최적화",
		"게임에 적합한 고속 연결",
	}, got.Reasons, "reasons keep evaluation order and stop at three")
}

func TestScorePlan_ScoreWithinRange(t *testing.T) {
	plans := []Plan{
		{ID: "a"},
		{ID: "b", Infos: []string{"무제한"}, Badge: Badge{"인기 최신"}, PriceValue: 1},
		{ID: "c", Infos: []string{"1GB"}, PriceValue: 999999},
	}
	analyses := []Analysis{{}, {DataUsage: 150, Budget: 120000}, {Budget: 1}}
	for _, p := range plans {
		for _, a := range analyses {
			got, err := ScorePlan(p, a)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.MatchScore, 0)
			assert.LessOrEqual(t, got.MatchScore, 100)
			assert.LessOrEqual(t, len(got.Reasons), 3)
		}
	}
}

func TestScorePlan_MalformedAllowanceFails(t *testing.T) {
	_, err := ScorePlan(Plan{ID: "bad", Infos: []string{"99999999999999999999GB"}}, Analysis{})
	assert.Error(t, err)
}

func TestRankPlans_OrdersAndTruncates(t *testing.T) {
	plans := make([]Plan, 0, 7)
	for i := 0; i < 7; i++ {
		plans = append(plans, Plan{ID: fmt.Sprintf("p%d", i), PriceValue: int64(10000 * (i + 1))})
	}
	a := Analysis{Budget: 70000}

	ranked := RankPlans(plans, a, MaxRecommendations, nil)
	require.Len(t, ranked, MaxRecommendations)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].MatchScore, ranked[i].MatchScore)
	}
	// p5 and p6 sit within 10000 of the budget
	assert.Equal(t, "p5", ranked[0].PlanID)
	assert.Equal(t, "p6", ranked[1].PlanID)
}

func TestRankPlans_StableForEqualScores(t *testing.T) {
	plans := []Plan{{ID: "first"}, {ID: "second"}, {ID: "third"}}
	ranked := RankPlans(plans, Analysis{}, 5, nil)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{ranked[0].PlanID, ranked[1].PlanID, ranked[2].PlanID})
}

func TestRankPlans_DropsFailingPlans(t *testing.T) {
	plans := []Plan{
		{ID: "ok"},
		{ID: "bad", Infos: []string{"99999999999999999999GB"}},
	}
	var dropped []string
	ranked := RankPlans(plans, Analysis{}, 5, func(p Plan, err error) {
		assert.Error(t, err)
		dropped = append(dropped, p.ID)
	})

	require.Len(t, ranked, 1)
	assert.Equal(t, "ok", ranked[0].PlanID)
	assert.Equal(t, []string{"bad"}, dropped)
}

func TestRankPlans_Empty(t *testing.T) {
	ranked := RankPlans(nil, Analysis{}, 5, nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestTotalScore(t *testing.T) {
	assert.Equal(t, 0, TotalScore(nil))
	assert.Equal(t, 71, TotalScore([]ScoredPlan{{MatchScore: 70}, {MatchScore: 71}, {MatchScore: 71}}))
	assert.Equal(t, 51, TotalScore([]ScoredPlan{{MatchScore: 50}, {MatchScore: 51}}))
}
