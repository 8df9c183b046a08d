package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/domain"
)

func TestFeedFilterIsHome(t *testing.T) {
	assert.True(t, domain.FeedFilter{}.IsHome())
	assert.False(t, domain.FeedFilter{Search: "go"}.IsHome())
	assert.False(t, domain.FeedFilter{Tag: "go"}.IsHome())
	assert.False(t, domain.FeedFilter{AuthorUsername: "alice"}.IsHome())
	assert.False(t, domain.FeedFilter{IncludeDrafts: true}.IsHome())
}

func TestMergePages(t *testing.T) {
	page1 := []domain.Article{{ID: 5}, {ID: 4}, {ID: 3}}

	t.Run("disjoint pages concatenate", func(t *testing.T) {
		merged := domain.MergePages(page1, []domain.Article{{ID: 2}, {ID: 1}})
		ids := collectIDs(merged)
		assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids)
	})

	t.Run("overlap from a shifted boundary is dropped", func(t *testing.T) {
		// an article inserted between fetches pushes ID 3 onto page 2
		merged := domain.MergePages(page1, []domain.Article{{ID: 3}, {ID: 2}})
		ids := collectIDs(merged)
		assert.Equal(t, []int64{5, 4, 3, 2}, ids)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Len(t, domain.MergePages(nil, page1), 3)
		assert.Len(t, domain.MergePages(page1, nil), 3)
	})
}

func collectIDs(articles []domain.Article) []int64 {
	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}
