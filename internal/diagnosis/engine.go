package diagnosis

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission is one diagnosis attempt as received from the request layer.
type Submission struct {
	SessionID string
	UserID    *string
	Answers   []Answer
	// AuthAge is the age of the authenticated user, when known.
	AuthAge *int
}

type Engine struct {
	catalog      CatalogStore
	results      ResultStore
	log          *zap.Logger
	newSessionID func() string
	onDrop       DropFunc
}

type EngineOption func(*Engine)

func WithSessionIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) { e.newSessionID = fn }
}

// WithDropHook is called, after logging, for every plan that failed to score.
func WithDropHook(fn DropFunc) EngineOption {
	return func(e *Engine) { e.onDrop = fn }
}

func NewEngine(catalog CatalogStore, results ResultStore, log *zap.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		catalog:      catalog,
		results:      results,
		log:          log,
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process validates a submission, scores the catalog against it and stores
// the result exactly once. Nothing is written unless every check passes.
func (e *Engine) Process(ctx context.Context, sub Submission) (*Result, error) {
	if err := ValidateAnswers(sub.Answers); err != nil {
		return nil, err
	}
	sessionID := sub.SessionID
	if sessionID == "" {
		sessionID = e.newSessionID()
	} else if !ValidSessionID(sessionID) {
		return nil, validationErrorf("malformed session id")
	}

	questions, err := e.resolveQuestions(ctx, sub.Answers)
	if err != nil {
		return nil, err
	}

	exists, err := e.results.ExistsSession(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "check session", Err: err}
	}
	if exists {
		return nil, &ConflictError{SessionID: sessionID}
	}

	analysis := Analyze(sub.Answers, questions, sub.AuthAge)
	filter := BuildCandidateFilter(analysis)

	candidates, err := e.catalog.FindCandidates(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "find candidates", Err: err}
	}
	eligible := candidates[:0:0]
	for _, p := range candidates {
		if filter.Matches(p) {
			eligible = append(eligible, p)
		}
	}

	ranked := RankPlans(eligible, analysis, MaxRecommendations, func(p Plan, err error) {
		e.log.Warn("plan dropped from scoring",
			zap.String("session_id", sessionID),
			zap.String("plan_id", p.ID),
			zap.Error(err))
		if e.onDrop != nil {
			e.onDrop(p, err)
		}
	})

	result := AssembleResult(sessionID, sub.UserID, sub.Answers, analysis, ranked)
	if err := e.results.Save(ctx, result); err != nil {
		if errors.Is(err, ErrSessionConflict) {
			return nil, &ConflictError{SessionID: sessionID}
		}
		return nil, &PersistenceError{Op: "save result", Err: err}
	}

	e.log.Info("diagnosis processed",
		zap.String("session_id", sessionID),
		zap.Int("candidates", len(eligible)),
		zap.Int("recommended", len(ranked)),
		zap.Int("total_score", result.TotalScore))
	return result, nil
}

func (e *Engine) resolveQuestions(ctx context.Context, answers []Answer) (map[string]Question, error) {
	ids := make([]string, 0, len(answers))
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if _, ok := seen[a.QuestionID]; ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		ids = append(ids, a.QuestionID)
	}

	found, err := e.catalog.FindQuestionsByID(ctx, ids)
	if err != nil {
		return nil, &PersistenceError{Op: "find questions", Err: err}
	}
	byID := make(map[string]Question, len(found))
	for _, q := range found {
		if q.Active {
			byID[q.ID] = q
		}
	}

	var invalid []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidQuestionError{QuestionIDs: invalid}
	}
	return byID, nil
}
