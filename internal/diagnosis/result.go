package diagnosis

import "math"

const NoMatchMessage = "답변에 맞는 추천 요금제를 찾을 수 없습니다. 조건을 다시 검토해보세요."

// TotalScore is the rounded mean of the recommended plans' scores, 0 when
// nothing was recommended.
func TotalScore(plans []ScoredPlan) int {
	if len(plans) == 0 {
		return 0
	}
	sum := 0
	for _, p := range plans {
		sum += p.MatchScore
	}
	return int(math.Round(float64(sum) / float64(len(plans))))
}

// AssembleResult builds the immutable session record handed to the store.
func AssembleResult(sessionID string, userID *string, answers []Answer, analysis Analysis, plans []ScoredPlan) *Result {
	if plans == nil {
		plans = []ScoredPlan{}
	}
	r := &Result{
		SessionID:        sessionID,
		UserID:           userID,
		Answers:          answers,
		Analysis:         analysis,
		RecommendedPlans: plans,
		TotalScore:       TotalScore(plans),
	}
	if len(plans) == 0 {
		r.Message = NoMatchMessage
	}
	return r
}
