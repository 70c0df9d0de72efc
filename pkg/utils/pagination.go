package utils

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage fills in defaults for absent values and rejects the rest.
func NormalizePage(page, limit, defaultLimit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, 0, ErrInvalidPageSize
	}
	return page, limit, nil
}

func Offset(page, limit int) int { return (page - 1) * limit }
