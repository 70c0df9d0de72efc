package repositories

import "github.com/google/uuid"

// canonicalID returns the canonical text form of a uuid primary key.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// filterUUIDs drops ids that cannot be primary keys, so they simply do not match.
func filterUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if canonical, ok := canonicalID(id); ok {
			out = append(out, canonical)
		}
	}
	return out
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
