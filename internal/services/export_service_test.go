package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
)

func TestExportService_ExportXLSX(t *testing.T) {
	f := newEntityFixture(t)
	activities := f.service(entities.ActivitySchema)
	ctx := context.Background()

	id, err := activities.Create(ctx, entities.Record{"name": "Trek", "description": "3-day trek", "duration": "3d", "price": 199.0}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService(zap.NewNop()).ExportXLSX(ctx, activities, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("activities")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name", "description", "image", "duration", "price"}, rows[0])
	assert.Equal(t, id, rows[1][0])
	assert.Equal(t, "Trek", rows[1][1])
	assert.Equal(t, "199", rows[1][5])
}
