package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/internal/repositories"
	apperrors "travel-cms/pkg/errors"
)

const maxSearchTermLength = 200

type SearchServiceInterface interface {
	Search(ctx context.Context, term string) ([]entities.SearchResult, error)
}

type SearchService struct {
	searchRepo repositories.SearchRepositoryInterface
	logger     *zap.Logger
}

func NewSearchService(searchRepo repositories.SearchRepositoryInterface, logger *zap.Logger) SearchServiceInterface {
	return &SearchService{searchRepo: searchRepo, logger: logger}
}

func (s *SearchService) Search(ctx context.Context, term string) ([]entities.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError(apperrors.ErrEmptySearchTerm.Error(), "term")
	}
	if utf8.RuneCountInString(term) > maxSearchTermLength {
		return nil, apperrors.NewValidationError("поисковый запрос слишком длинный", "term")
	}

	results, err := s.searchRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []entities.SearchResult{}
	}
	s.logger.Debug("Поиск выполнен", zap.String("term", term), zap.Int("found", len(results)))
	return results, nil
}
