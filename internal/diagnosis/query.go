package diagnosis

import "math"

// budgetHeadroom lets plans up to 20% above the stated budget through the
// pre-filter so the scorer can still rank near misses.
const budgetHeadroom = 1.2

// BuildCandidateFilter derives the catalog pre-filter from an Analysis. Data
// usage and usage patterns are deliberately not filtered here.
func BuildCandidateFilter(a Analysis) CandidateFilter {
	var f CandidateFilter
	if a.Age != nil {
		age := *a.Age
		f.Age = &age
	}
	if a.Budget > 0 {
		ceiling := int64(math.Floor(a.Budget * budgetHeadroom))
		f.PriceCeiling = &ceiling
	}
	return f
}

// Matches applies the filter to a single plan. Stores are expected to apply
// the same predicate in their query.
func (f CandidateFilter) Matches(p Plan) bool {
	if !p.Active {
		return false
	}
	if f.Age != nil {
		if p.MinAge != nil && *p.MinAge > *f.Age {
			return false
		}
		if p.MaxAge != nil && *p.MaxAge < *f.Age {
			return false
		}
	}
	if f.PriceCeiling != nil && p.PriceValue > *f.PriceCeiling {
		return false
	}
	return true
}
