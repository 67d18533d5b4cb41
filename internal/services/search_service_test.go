package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/internal/repositories/repotest"
	apperrors "travel-cms/pkg/errors"
)

func TestSearchService(t *testing.T) {
	f := newEntityFixture(t)
	ctx := context.Background()

	articleID, err := f.service(entities.ArticleSchema).Create(ctx, entities.Record{
		"title": "Annapurna Circuit", "description": "Around the massif", "cost": 900.0,
		"duration": "12d", "start_point": "Besisahar", "end_point": "Jomsom",
	}, nil)
	require.NoError(t, err)
	_, err = f.service(entities.BlogSchema).Create(ctx, entities.Record{"title": "Packing list", "description": "for annapurna"}, nil)
	require.NoError(t, err)
	_, err = f.service(entities.EventSchema).Create(ctx, entities.Record{"title": "Annapurna festival"}, nil)
	require.NoError(t, err)

	svc := NewSearchService(&repotest.SearchRepository{Records: f.repo}, zap.NewNop())

	results, err := svc.Search(ctx, "ANNAPURNA")
	require.NoError(t, err)
	require.Len(t, results, 2, "события в поиск не входят")
	assert.Equal(t, entities.KindBlog, results[0].Type)
	assert.Equal(t, entities.KindArticle, results[1].Type)
	assert.Equal(t, articleID, results[1].ID)
	assert.Equal(t, "Annapurna Circuit", results[1].Name)

	results, err = svc.Search(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_InvalidTerm(t *testing.T) {
	svc := NewSearchService(&repotest.SearchRepository{Records: repotest.NewRecordRepository()}, zap.NewNop())

	for _, term := range []string{"", "   ", strings.Repeat("x", maxSearchTermLength+1)} {
		_, err := svc.Search(context.Background(), term)
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	}
}
