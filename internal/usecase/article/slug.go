package article

import (
	"context"
	"fmt"
	"strings"
)

// slugify lowers the title and reduces it to [a-z0-9-]: every run of
// other characters becomes a single dash, leading/trailing dashes go.
func slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}

	slug := b.String()
	if slug == "" {
		// Titles with no ASCII letters or digits still need a base.
		slug = "article"
	}
	return slug
}

// allocateSlug probes base, base-1, base-2, ... until an unused slug is
// found. Sequential so the result is reproducible for a given set of
// existing slugs; collisions are rare enough that the extra existence
// checks don't matter.
func (a *Service) allocateSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	candidate := base
	for i := 1; ; i++ {
		exists, err := a.articleRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
