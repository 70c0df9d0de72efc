// Package diagnosis turns quiz answers into a ranked, explained list of
// mobile plan recommendations.
package diagnosis

import (
	"context"
	"encoding/json"
	"strings"
)

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionRange    QuestionType = "range"
	QuestionInput    QuestionType = "input"
)

type QuestionCategory string

const (
	CategoryData       QuestionCategory = "data"
	CategoryBudget     QuestionCategory = "budget"
	CategoryUsage      QuestionCategory = "usage"
	CategoryAge        QuestionCategory = "age"
	CategoryPreference QuestionCategory = "preference"
)

// Question is reference data owned by the catalog. The category is advisory:
// normalization looks at the answer content, not at the category.
type Question struct {
	ID       string           `json:"id"`
	Order    int              `json:"order"`
	Text     string           `json:"question"`
	Type     QuestionType     `json:"type"`
	Options  []string         `json:"options"`
	Category QuestionCategory `json:"category"`
	Weight   int              `json:"weight"`
	Active   bool             `json:"isActive"`
}

type Answer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"answer"`
}

// Plan is the read-only view of a catalog plan used for scoring.
type Plan struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Price      string            `json:"price,omitempty"`
	PriceValue int64             `json:"price_value"`
	SalePrice  string            `json:"sale_price,omitempty"`
	PlanSpeed  string            `json:"plan_speed,omitempty"`
	Infos      []string          `json:"infos"`
	Benefits   map[string]string `json:"benefits"`
	Brands     []string          `json:"brands,omitempty"`
	Badge      Badge             `json:"badge"`
	MinAge     *int              `json:"min_age"`
	MaxAge     *int              `json:"max_age"`
	Active     bool              `json:"isActive"`
}

// Badge holds the plan labels. The catalog stores either a single string or
// a list; both decode into the same slice.
type Badge []string

func (b *Badge) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*b = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*b = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*b = nil
		return nil
	}
	*b = Badge{single}
	return nil
}

// Contains reports whether any label contains the given keyword.
func (b Badge) Contains(keyword string) bool {
	for _, label := range b {
		if strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}

// Analysis is the aggregate of one session's answers.
type Analysis struct {
	DataUsage     float64  `json:"dataUsage"`
	Budget        float64  `json:"budget"`
	Age           *int     `json:"age"`
	Preferences   []string `json:"preferences"`
	UsagePatterns []string `json:"usagePatterns"`
}

func (a Analysis) HasPattern(tag string) bool {
	for _, p := range a.UsagePatterns {
		if p == tag {
			return true
		}
	}
	return false
}

type ScoredPlan struct {
	PlanID     string   `json:"planId"`
	Plan       Plan     `json:"plan"`
	MatchScore int      `json:"matchScore"`
	Reasons    []string `json:"reasons"`
}

// Result is the persisted outcome of one diagnosis session.
type Result struct {
	SessionID        string       `json:"sessionId"`
	UserID           *string      `json:"userId"`
	Answers          []Answer     `json:"answers"`
	Analysis         Analysis     `json:"analysisResult"`
	RecommendedPlans []ScoredPlan `json:"recommendedPlans"`
	TotalScore       int          `json:"totalScore"`
	Message          string       `json:"message,omitempty"`
}

// CandidateFilter narrows the catalog before scoring. Nil fields are not applied.
type CandidateFilter struct {
	Age          *int
	PriceCeiling *int64
}

type CatalogStore interface {
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]Plan, error)
	// FindQuestionsByID returns the active questions among ids. Unknown or
	// inactive ids are simply absent from the result.
	FindQuestionsByID(ctx context.Context, ids []string) ([]Question, error)
}

type ResultStore interface {
	ExistsSession(ctx context.Context, sessionID string) (bool, error)
	// Save must return ErrSessionConflict when the session id is taken.
	Save(ctx context.Context, result *Result) error
}
