package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionSet(ids ...string) map[string]Question {
	m := make(map[string]Question, len(ids))
	for i, id := range ids {
		m[id] = Question{ID: id, Order: i + 1, Active: true}
	}
	return m
}

func TestAnalyze_FoldsAnswers(t *testing.T) {
	answers := []Answer{
		{QuestionID: "data", Value: TextAnswer("50GB - 100GB")},
		{QuestionID: "budget", Value: TextAnswer("5-7만원")},
		{QuestionID: "age", Value: TextAnswer("20대")},
		{QuestionID: "usage", Value: ListAnswer("영상 시청", "게임", "영상 편집")},
	}
	a := Analyze(answers, questionSet("data", "budget", "age", "usage"), nil)

	assert.Equal(t, float64(75), a.DataUsage)
	assert.Equal(t, float64(60000), a.Budget)
	require.NotNil(t, a.Age)
	assert.Equal(t, 25, *a.Age)
	assert.Equal(t, []string{TagVideoStreaming, TagGaming}, a.UsagePatterns)
	assert.Equal(t, []string{PreferenceUnlimited, PreferenceHighSpeed}, a.Preferences)
}

func TestAnalyze_SkipsUnknownQuestions(t *testing.T) {
	answers := []Answer{
		{QuestionID: "ghost", Value: TextAnswer("10만원 이상")},
	}
	a := Analyze(answers, questionSet("budget"), nil)
	assert.Zero(t, a.Budget)
	assert.Empty(t, a.UsagePatterns)
	assert.NotNil(t, a.UsagePatterns)
}

func TestAnalyze_LastAnswerWins(t *testing.T) {
	answers := []Answer{
		{QuestionID: "b1", Value: TextAnswer("3만원 이하")},
		{QuestionID: "b2", Value: TextAnswer("7-10만원")},
	}
	a := Analyze(answers, questionSet("b1", "b2"), nil)
	assert.Equal(t, float64(85000), a.Budget)
}

func TestAnalyze_AuthenticatedAgeOverridesAnswers(t *testing.T) {
	authAge := 41
	answers := []Answer{{QuestionID: "age", Value: TextAnswer("20대")}}

	a := Analyze(answers, questionSet("age"), &authAge)
	require.NotNil(t, a.Age)
	assert.Equal(t, 41, *a.Age)

	authAge = 50
	assert.Equal(t, 41, *a.Age, "analysis must not alias the caller's age")
}

func TestAnalyze_OrderIndependentForDisjointFields(t *testing.T) {
	qs := questionSet("data", "budget")
	forward := Analyze([]Answer{
		{QuestionID: "data", Value: TextAnswer("5GB - 20GB")},
		{QuestionID: "budget", Value: TextAnswer("3-5만원")},
	}, qs, nil)
	reverse := Analyze([]Answer{
		{QuestionID: "budget", Value: TextAnswer("3-5만원")},
		{QuestionID: "data", Value: TextAnswer("5GB - 20GB")},
	}, qs, nil)
	assert.Equal(t, forward, reverse)
}
