package repository

import "github.com/inkpress/inkpress/domain"

// NormalizePage clamps a 1-indexed page number and page size to sane
// bounds, falling back to the defaults for out-of-range sizes.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > domain.MaxPageSize {
		size = domain.DefaultPageSize
	}
	return page, size
}

// PageOffset converts a 1-indexed page number to a row offset.
func PageOffset(page, size int) int {
	return (page - 1) * size
}
