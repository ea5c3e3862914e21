package service

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// normalizePage applies page/limit defaults and returns the row offset.
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func totalPages(count int64, limit int) int {
	if count == 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
