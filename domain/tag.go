package domain

import "context"

// Tag has a unique name and is attached to articles many-to-many.
// Tags are created lazily when an article references a new name.
type Tag struct {
	ID   int64
	Name string
}

type TagRepository interface {
	// Popular returns tag names ordered by how many articles use them.
	Popular(ctx context.Context, limit int) ([]string, error)

	// Search returns tag names containing query, case-insensitive,
	// most used first.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type TagUsecase interface {
	Popular(ctx context.Context, limit int) ([]string, error)
	Search(ctx context.Context, query string) ([]string, error)
}
