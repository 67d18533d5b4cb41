package bd

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-cms/pkg/types"
)

func TestApplyListParams(t *testing.T) {
	allowed := map[string]string{"date": "date", "title": "title"}
	base := sq.Select("id").From("blogs").PlaceholderFormat(sq.Dollar)

	opts := types.ListOptions{
		Sort: []types.SortField{
			{Field: "date", Desc: true},
			{Field: "password"},
			{Field: "title"},
		},
		Limit: 3,
	}
	query, _, err := ApplyListParams(base, opts, allowed, "seq ASC").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM blogs ORDER BY date DESC NULLS LAST, title ASC, seq ASC LIMIT 3", query)

	query, _, err = ApplyListParams(base, types.ListOptions{}, allowed, "seq ASC").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM blogs ORDER BY seq ASC", query)
}
