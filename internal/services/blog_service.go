package services

import (
	"context"

	"travel-cms/internal/entities"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/types"
)

const LatestBlogsCount = 3

// BlogService - сервис блогов с выборкой последних записей по дате.
type BlogService struct {
	*EntityService
}

func NewBlogService(entityService *EntityService) *BlogService {
	return &BlogService{EntityService: entityService}
}

// Latest возвращает не более n записей, от новых к старым по полю date.
// Записи без даты идут последними.
func (s *BlogService) Latest(ctx context.Context, n int) ([]entities.Record, error) {
	if n <= 0 {
		return nil, apperrors.NewValidationError("количество записей должно быть положительным", "n")
	}
	return s.recordRepo.FindAll(ctx, s.schema, types.ListOptions{
		Sort:  []types.SortField{{Field: "date", Desc: true}},
		Limit: uint64(n),
	})
}

type BlogServiceInterface interface {
	EntityServiceInterface
	Latest(ctx context.Context, n int) ([]entities.Record, error)
}
