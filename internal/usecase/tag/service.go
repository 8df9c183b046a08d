package tag

import (
	"context"
	"strings"

	"github.com/inkpress/inkpress/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 30
)

type Service struct {
	tagRepo domain.TagRepository
}

var _ domain.TagUsecase = (*Service)(nil)

func NewService(t domain.TagRepository) *Service {
	return &Service{tagRepo: t}
}

func (s *Service) Popular(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return s.tagRepo.Popular(ctx, limit)
}

func (s *Service) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}
	return s.tagRepo.Search(ctx, query, defaultLimit)
}
