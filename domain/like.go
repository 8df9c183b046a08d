package domain

import "time"

// UserLike is representing a like record.
// At most one record exists per (UserID, ArticleID) pair at all times,
// enforced by a unique index in the store.
type UserLike struct {
	ArticleID int64
	UserID    int64
	CreatedAt time.Time
}
