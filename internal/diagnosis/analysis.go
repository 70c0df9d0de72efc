package diagnosis

// Analyze folds every answer that references a known question into one
// Analysis. Scalar fields follow last-match-wins in answer order; tag lists
// keep first-seen order without duplicates. A non-nil authAge replaces any
// age inferred from the answers.
func Analyze(answers []Answer, questions map[string]Question, authAge *int) Analysis {
	analysis := Analysis{
		Preferences:   []string{},
		UsagePatterns: []string{},
	}

	for _, a := range answers {
		if _, ok := questions[a.QuestionID]; !ok {
			continue
		}
		s := Normalize(a.Value)
		if s.DataUsage != nil {
			analysis.DataUsage = *s.DataUsage
		}
		if s.Budget != nil {
			analysis.Budget = *s.Budget
		}
		if s.Age != nil {
			age := *s.Age
			analysis.Age = &age
		}
		analysis.UsagePatterns = append(analysis.UsagePatterns, s.UsagePatterns...)
		analysis.Preferences = append(analysis.Preferences, s.Preferences...)
	}

	if authAge != nil {
		age := *authAge
		analysis.Age = &age
	}
	analysis.UsagePatterns = dedupe(analysis.UsagePatterns)
	analysis.Preferences = dedupe(analysis.Preferences)
	return analysis
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
