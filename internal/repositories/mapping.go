package repositories

import (
	"encoding/json"
	"fmt"

	"yoplan/internal/diagnosis"
	"yoplan/internal/models/db_models"
)

// ToPlanView converts a stored plan into the read model used by scoring and
// by the API. Malformed JSON columns degrade to empty values.
func ToPlanView(p db_models.Plan) diagnosis.Plan {
	view := diagnosis.Plan{
		ID:         p.ID.String(),
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		PriceValue: p.PriceValue,
		SalePrice:  p.SalePrice,
		PlanSpeed:  p.PlanSpeed,
		Infos:      []string(p.Infos),
		Benefits:   decodeBenefits(p.Benefits),
		Brands:     []string(p.Brands),
		MinAge:     p.MinAge,
		MaxAge:     p.MaxAge,
		Active:     p.IsActive,
	}
	if view.Infos == nil {
		view.Infos = []string{}
	}
	if len(p.Badge) > 0 {
		_ = json.Unmarshal(p.Badge, &view.Badge)
	}
	return view
}

func ToPlanViews(plans []db_models.Plan) []diagnosis.Plan {
	out := make([]diagnosis.Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, ToPlanView(p))
	}
	return out
}

func decodeBenefits(raw []byte) map[string]string {
	out := map[string]string{}
	if len(raw) == 0 {
		return out
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return out
	}
	for k, v := range generic {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func ToQuestionView(q db_models.DiagnosisQuestion) diagnosis.Question {
	options := []string(q.Options)
	if options == nil {
		options = []string{}
	}
	return diagnosis.Question{
		ID:       q.ID.String(),
		Order:    q.SortOrder,
		Text:     q.Question,
		Type:     diagnosis.QuestionType(q.Type),
		Options:  options,
		Category: diagnosis.QuestionCategory(q.Category),
		Weight:   q.Weight,
		Active:   q.IsActive,
	}
}
