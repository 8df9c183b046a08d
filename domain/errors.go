package domain

import "errors"

var (
	// ErrInternalServerError is returned when an unexpected failure occurs
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound is returned when the requested item doesn't exist
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict is returned when an item with the same unique key already exists
	ErrConflict = errors.New("your item already exists")
	// ErrBadParamInput is returned when the given request parameters are invalid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrUnauthorized is returned when the actor may not perform the operation
	ErrUnauthorized = errors.New("you are not allowed to perform this operation")

	// ErrAlreadyLiked is returned when the user has already liked the article
	ErrAlreadyLiked = errors.New("article already liked")
	// ErrNotLiked is returned when unliking an article the user never liked
	ErrNotLiked = errors.New("article is not liked")

	// ErrCacheMiss is returned when the requested key is absent from cache
	ErrCacheMiss = errors.New("cache miss")
	// ErrDependency is returned when the cache or store is unavailable
	ErrDependency = errors.New("dependency unavailable")
)
