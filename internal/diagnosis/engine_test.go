package diagnosis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu        sync.Mutex
	plans     []Plan
	questions []Question
	err       error
	filters   []CandidateFilter
}

func (f *fakeCatalog) FindCandidates(_ context.Context, filter CandidateFilter) ([]Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func (f *fakeCatalog) FindQuestionsByID(_ context.Context, ids []string) ([]Question, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Question
	for _, q := range f.questions {
		if want[q.ID] && q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeResults struct {
	mu      sync.Mutex
	saved   map[string]*Result
	saveErr error
	saves   int
}

func newFakeResults() *fakeResults {
	return &fakeResults{saved: map[string]*Result{}}
}

func (f *fakeResults) ExistsSession(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[id]
	return ok, nil
}

func (f *fakeResults) Save(_ context.Context, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.saved[r.SessionID]; ok {
		return ErrSessionConflict
	}
	f.saved[r.SessionID] = r
	return nil
}

func seededCatalog() *fakeCatalog {
	return &fakeCatalog{
		questions: []Question{
			{ID: "q-data", Order: 1, Category: CategoryData, Active: true},
			{ID: "q-budget", Order: 2, Category: CategoryBudget, Active: true},
			{ID: "q-usage", Order: 3, Category: CategoryUsage, Type: QuestionMultiple, Active: true},
			{ID: "q-retired", Order: 4, Category: CategoryAge, Active: false},
		},
		plans: []Plan{
			{ID: "unlimited", Name: "5G 프리미어", Infos: []string{"데이터 무제한"}, PriceValue: 58000, Active: true, Badge: Badge{"인기"}},
			{ID: "small", Name: "LTE 슬림", Infos: []string{"데이터 5GB"}, PriceValue: 25000, Active: true},
			{ID: "pricey", Name: "5G 시그니처", Infos: []string{"데이터 무제한"}, PriceValue: 130000, Active: true},
			{ID: "youth", Name: "청소년", Infos: []string{"데이터 10GB"}, PriceValue: 20000, Active: true, MaxAge: intPtr(18)},
			{ID: "retired", Name: "구형", Infos: []string{"데이터 30GB"}, PriceValue: 40000, Active: false},
		},
	}
}

func standardAnswers() []Answer {
	return []Answer{
		{QuestionID: "q-data", Value: TextAnswer("20GB - 50GB")},
		{QuestionID: "q-budget", Value: TextAnswer("5-7만원")},
	}
}

func TestEngine_Process(t *testing.T) {
	catalog := seededCatalog()
	results := newFakeResults()
	engine := NewEngine(catalog, results, nil)

	userID := "user-1"
	age := 30
	got, err := engine.Process(context.Background(), Submission{
		SessionID: "session-1",
		UserID:    &userID,
		Answers:   standardAnswers(),
		AuthAge:   &age,
	})
	require.NoError(t, err)

	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, &userID, got.UserID)
	require.NotEmpty(t, got.RecommendedPlans)
	assert.Equal(t, "unlimited", got.RecommendedPlans[0].PlanID)
	assert.GreaterOrEqual(t, got.RecommendedPlans[0].MatchScore, 60)
	assert.Empty(t, got.Message)

	ids := make([]string, 0, len(got.RecommendedPlans))
	for _, p := range got.RecommendedPlans {
		ids = append(ids, p.PlanID)
	}
	assert.NotContains(t, ids, "pricey", "over the 20% budget headroom")
	assert.NotContains(t, ids, "youth", "outside the user's age range")
	assert.NotContains(t, ids, "retired", "inactive")

	require.Len(t, catalog.filters, 1)
	require.NotNil(t, catalog.filters[0].PriceCeiling)
	assert.Equal(t, int64(72000), *catalog.filters[0].PriceCeiling)

	assert.Same(t, got, results.saved["session-1"])
	assert.Equal(t, TotalScore(got.RecommendedPlans), got.TotalScore)
}

func TestEngine_Process_GeneratesSessionID(t *testing.T) {
	engine := NewEngine(seededCatalog(), newFakeResults(), nil,
		WithSessionIDGenerator(func() string { return "generated" }))

	got, err := engine.Process(context.Background(), Submission{Answers: standardAnswers()})
	require.NoError(t, err)
	assert.Equal(t, "generated", got.SessionID)
	assert.Nil(t, got.UserID)
}

func TestEngine_Process_NoMatchIsNotAnError(t *testing.T) {
	results := newFakeResults()
	engine := NewEngine(seededCatalog(), results, nil)

	got, err := engine.Process(context.Background(), Submission{
		SessionID: "cheap",
		Answers:   []Answer{{QuestionID: "q-budget", Value: NumberAnswer(1)}},
	})
	require.NoError(t, err)
	assert.Empty(t, got.RecommendedPlans)
	assert.NotNil(t, got.RecommendedPlans)
	assert.Equal(t, 0, got.TotalScore)
	assert.Equal(t, NoMatchMessage, got.Message)
	assert.Contains(t, results.saved, "cheap")
}

func TestEngine_Process_UnknownQuestion(t *testing.T) {
	results := newFakeResults()
	engine := NewEngine(seededCatalog(), results, nil)

	_, err := engine.Process(context.Background(), Submission{
		SessionID: "s",
		Answers: []Answer{
			{QuestionID: "q-data", Value: TextAnswer("무제한")},
			{QuestionID: "nope", Value: TextAnswer("x")},
			{QuestionID: "q-retired", Value: TextAnswer("20대")},
		},
	})

	var invalid *InvalidQuestionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"nope", "q-retired"}, invalid.QuestionIDs)
	assert.Zero(t, results.saves)
}

func TestEngine_Process_ValidationRunsFirst(t *testing.T) {
	catalog := seededCatalog()
	results := newFakeResults()
	engine := NewEngine(catalog, results, nil)

	_, err := engine.Process(context.Background(), Submission{SessionID: "s"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = engine.Process(context.Background(), Submission{SessionID: "bad id!", Answers: standardAnswers()})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, catalog.filters)
	assert.Zero(t, results.saves)
}

func TestEngine_Process_DuplicateSession(t *testing.T) {
	results := newFakeResults()
	engine := NewEngine(seededCatalog(), results, nil)
	sub := Submission{SessionID: "dup", Answers: standardAnswers()}

	first, err := engine.Process(context.Background(), sub)
	require.NoError(t, err)

	_, err = engine.Process(context.Background(), sub)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "dup", conflict.SessionID)
	assert.ErrorIs(t, err, ErrSessionConflict)
	assert.Same(t, first, results.saved["dup"])
	assert.Equal(t, 1, results.saves)
}

func TestEngine_Process_ConcurrentDuplicateSubmissions(t *testing.T) {
	results := newFakeResults()
	engine := NewEngine(seededCatalog(), results, nil)
	sub := Submission{SessionID: "race", Answers: standardAnswers()}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Process(context.Background(), sub)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSessionConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, results.saved, 1)
}

func TestEngine_Process_StoreFailures(t *testing.T) {
	boom := errors.New("connection reset")

	catalog := seededCatalog()
	catalog.err = boom
	_, err := NewEngine(catalog, newFakeResults(), nil).Process(context.Background(),
		Submission{SessionID: "a", Answers: standardAnswers()})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)

	results := newFakeResults()
	results.saveErr = boom
	_, err = NewEngine(seededCatalog(), results, nil).Process(context.Background(),
		Submission{SessionID: "b", Answers: standardAnswers()})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save result", perr.Op)
}

func TestEngine_Process_Deterministic(t *testing.T) {
	engine := NewEngine(seededCatalog(), newFakeResults(), nil)
	answers := append(standardAnswers(), Answer{QuestionID: "q-usage", Value: ListAnswer("영상 시청", "게임")})

	first, err := engine.Process(context.Background(), Submission{SessionID: "one", Answers: answers})
	require.NoError(t, err)
	second, err := engine.Process(context.Background(), Submission{SessionID: "two", Answers: answers})
	require.NoError(t, err)

	assert.Equal(t, first.RecommendedPlans, second.RecommendedPlans)
	assert.Equal(t, first.Analysis, second.Analysis)
}

func TestEngine_Process_DropsUnscorablePlans(t *testing.T) {
	catalog := seededCatalog()
	catalog.plans = append(catalog.plans, Plan{ID: "broken", Infos: []string{"99999999999999999999GB"}, PriceValue: 30000, Active: true})

	got, err := NewEngine(catalog, newFakeResults(), nil).Process(context.Background(),
		Submission{SessionID: "drop", Answers: standardAnswers()})
	require.NoError(t, err)
	for _, p := range got.RecommendedPlans {
		assert.NotEqual(t, "broken", p.PlanID)
	}
}

func TestEngine_Process_ReportsDrops(t *testing.T) {
	catalog := seededCatalog()
	catalog.plans = append(catalog.plans, Plan{ID: "broken", Infos: []string{"99999999999999999999GB"}, PriceValue: 30000, Active: true})

	var mu sync.Mutex
	var dropped []string
	engine := NewEngine(catalog, newFakeResults(), nil, WithDropHook(func(p Plan, err error) {
		mu.Lock()
		defer mu.Unlock()
		dropped = append(dropped, p.ID)
	}))

	_, err := engine.Process(context.Background(), Submission{SessionID: "hook", Answers: standardAnswers()})
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, dropped)
}
