package domain

const (
	// DefaultPageSize is the feed page size when the caller gives none.
	DefaultPageSize = 8
	// MaxPageSize caps a single feed page.
	MaxPageSize = 30
)

// FeedFilter narrows a feed query. The zero value is the public
// published feed.
type FeedFilter struct {
	// Search matches title, body and slug, case-insensitive contains.
	Search string
	// Tag restricts to articles carrying the tag name.
	Tag string
	// AuthorUsername restricts to one author's articles.
	AuthorUsername string
	// IncludeDrafts also returns DRAFT articles. Only set when the
	// requesting identity is the author itself.
	IncludeDrafts bool
}

// IsHome reports whether the filter is the unfiltered published feed,
// the only variant worth caching.
func (f FeedFilter) IsHome() bool {
	return f == FeedFilter{}
}

// MergePages appends next onto articles, dropping items already held.
// Pages are fetched at different times; a concurrent insert can shift an
// article across a page boundary so it shows up twice.
func MergePages(articles, next []Article) []Article {
	seen := make(map[int64]bool, len(articles))
	for _, a := range articles {
		seen[a.ID] = true
	}
	for _, a := range next {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		articles = append(articles, a)
	}
	return articles
}
